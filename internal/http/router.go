package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	intconfig "fleetflow/internal/config"
	h "fleetflow/internal/http/handlers"
	"fleetflow/internal/http/middleware"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	middleware.SetJWTSecret(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warnf("failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.POST("/seed", h.SeedDemoData)

		auth := api.Group("/auth")
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", middleware.RequireAuth(), h.Me)

		protected := api.Group("", middleware.RequireAuth())
		{
			vehicles := protected.Group("/vehicles")
			vehicles.GET("", h.GetVehicles)
			vehicles.POST("", h.CreateVehicle)
			vehicles.PUT("/:id", h.UpdateVehicle)
			vehicles.DELETE("/:id", h.DeleteVehicle)

			drivers := protected.Group("/drivers")
			drivers.GET("", h.GetDrivers)
			drivers.POST("", h.CreateDriver)
			drivers.PUT("/:id", h.UpdateDriver)
			drivers.DELETE("/:id", h.DeleteDriver)

			trips := protected.Group("/trips")
			trips.GET("", h.GetTrips)
			trips.POST("", h.CreateTrip)
			trips.POST("/:id/dispatch", h.DispatchTrip)
			trips.POST("/:id/complete", h.CompleteTrip)
			trips.POST("/:id/cancel", h.CancelTrip)

			maintenance := protected.Group("/maintenance")
			maintenance.GET("", h.GetMaintenance)
			maintenance.POST("", h.OpenMaintenance)
			maintenance.POST("/:id/complete", h.CompleteMaintenance)

			expenses := protected.Group("/expenses")
			expenses.GET("", h.GetExpenses)
			expenses.POST("", h.CreateExpense)

			protected.GET("/analytics/summary", h.GetAnalyticsSummary)

			export := protected.Group("/export")
			export.GET("/csv", h.ExportTripsCSV)
			export.GET("/pdf", h.ExportSummaryPDF)
		}
	}

	return r
}
