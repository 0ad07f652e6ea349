package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/http/middleware"
	"fleetflow/internal/services"
)

// GET /api/analytics/summary
func GetAnalyticsSummary(c *gin.Context) {
	summary, err := services.AnalyticsService{}.Summary(middleware.Principal(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
