package handlers

import (
	"net/http"

	"havenly/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency check; 503 when Mongo is down.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Mongo {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "services": status})
}
