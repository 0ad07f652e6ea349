package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/http/middleware"
	"fleetflow/internal/services"
)

func maintenanceService(c *gin.Context) services.MaintenanceService {
	return services.MaintenanceService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/maintenance
func GetMaintenance(c *gin.Context) {
	list, err := maintenanceService(c).List(middleware.Principal(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/maintenance
func OpenMaintenance(c *gin.Context) {
	var in services.OpenMaintenanceInput
	if !BindJSONOrError(c, &in) {
		return
	}
	m, err := maintenanceService(c).Open(middleware.Principal(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// POST /api/maintenance/:id/complete
func CompleteMaintenance(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	m, err := maintenanceService(c).Complete(middleware.Principal(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
