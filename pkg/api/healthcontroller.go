package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers the health check.
func RegisterHealthRoutes(r *gin.Engine, svc Service) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Health())
	})
}
