package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/shopcart-api/internal/config"
)

// SecurityHeaders adds security headers to responses
func SecurityHeaders(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// JSON only, nothing to load
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// Carts and tokens must not end up in shared caches
		c.Header("Cache-Control", "no-store")

		if cfg.IsProduction() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Header("Server", cfg.App.Name)

		c.Next()
	}
}
