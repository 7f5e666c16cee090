package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/shopcart-api/internal/config"
)

// Home handles GET /
func Home(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": cfg.App.Name,
			"version": cfg.App.Version,
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}
