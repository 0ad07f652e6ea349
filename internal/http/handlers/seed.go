package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/http/middleware"
	"fleetflow/internal/services"
)

// POST /api/seed
func SeedDemoData(c *gin.Context) {
	res, err := services.SeedService{RequestID: middleware.GetRequestID(c)}.Seed()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
