package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/http/middleware"
	"fleetflow/internal/services"
)

func tripService(c *gin.Context) services.TripService {
	return services.TripService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/trips
func GetTrips(c *gin.Context) {
	list, err := tripService(c).List(middleware.Principal(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/trips
func CreateTrip(c *gin.Context) {
	var in services.CreateTripInput
	if !BindJSONOrError(c, &in) {
		return
	}
	t, err := tripService(c).Create(middleware.Principal(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// POST /api/trips/:id/dispatch
func DispatchTrip(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	t, err := tripService(c).Dispatch(middleware.Principal(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// POST /api/trips/:id/complete
func CompleteTrip(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	t, err := tripService(c).Complete(middleware.Principal(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// POST /api/trips/:id/cancel
func CancelTrip(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	t, err := tripService(c).Cancel(middleware.Principal(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
