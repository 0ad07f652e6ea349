package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/http/middleware"
	"fleetflow/internal/services"
)

func exportService(c *gin.Context) services.ExportService {
	return services.ExportService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/export/csv
func ExportTripsCSV(c *gin.Context) {
	data, filename, err := exportService(c).TripsCSV(middleware.Principal(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// GET /api/export/pdf
func ExportSummaryPDF(c *gin.Context) {
	data, filename, err := exportService(c).SummaryPDF(middleware.Principal(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
