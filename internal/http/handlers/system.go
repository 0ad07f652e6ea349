package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	intconfig "fleetflow/internal/config"
)

func Health(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "setup_required", "db_connected": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "db_connected": true})
}

func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not connected"})
		return
	}
	var count int
	if err := intconfig.DB.QueryRow("SELECT COUNT(*) FROM vehicles").Scan(&count); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "query failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "vehicles_in_db": count})
}
