package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/http/middleware"
	"fleetflow/internal/repositories"
	"fleetflow/internal/services"
)

func fleetService(c *gin.Context) services.FleetService {
	return services.FleetService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/vehicles
func GetVehicles(c *gin.Context) {
	list, err := fleetService(c).ListVehicles(middleware.Principal(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var in services.CreateVehicleInput
	if !BindJSONOrError(c, &in) {
		return
	}
	v, err := fleetService(c).CreateVehicle(middleware.Principal(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

type vehicleUpdateRequest struct {
	Name            *string  `json:"name"`
	Model           *string  `json:"model"`
	LicensePlate    *string  `json:"license_plate"`
	MaxCapacity     *float64 `json:"max_capacity"`
	Odometer        *float64 `json:"odometer"`
	Status          *string  `json:"status"`
	AcquisitionCost *float64 `json:"acquisition_cost"`
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	var req vehicleUpdateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	v, err := fleetService(c).UpdateVehicle(middleware.Principal(c), id, repositories.VehiclePatch{
		Name:            req.Name,
		Model:           req.Model,
		LicensePlate:    req.LicensePlate,
		MaxCapacity:     req.MaxCapacity,
		Odometer:        req.Odometer,
		Status:          req.Status,
		AcquisitionCost: req.AcquisitionCost,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// DELETE /api/vehicles/:id
func DeleteVehicle(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	if err := fleetService(c).DeleteVehicle(middleware.Principal(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}
