package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/http/middleware"
	"fleetflow/internal/repositories"
	"fleetflow/internal/services"
)

// GET /api/drivers
func GetDrivers(c *gin.Context) {
	list, err := fleetService(c).ListDrivers(middleware.Principal(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/drivers
func CreateDriver(c *gin.Context) {
	var in services.CreateDriverInput
	if !BindJSONOrError(c, &in) {
		return
	}
	d, err := fleetService(c).CreateDriver(middleware.Principal(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

type driverUpdateRequest struct {
	FullName      *string  `json:"full_name"`
	LicenseNumber *string  `json:"license_number"`
	LicenseExpiry *string  `json:"license_expiry"`
	SafetyScore   *float64 `json:"safety_score"`
	Status        *string  `json:"status"`
}

// PUT /api/drivers/:id
func UpdateDriver(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	var req driverUpdateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d, err := fleetService(c).UpdateDriver(middleware.Principal(c), id, repositories.DriverPatch{
		FullName:      req.FullName,
		LicenseNumber: req.LicenseNumber,
		LicenseExpiry: req.LicenseExpiry,
		SafetyScore:   req.SafetyScore,
		Status:        req.Status,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// DELETE /api/drivers/:id
func DeleteDriver(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	if err := fleetService(c).DeleteDriver(middleware.Principal(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver deleted"})
}
