// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/shopcart-api/internal/pkg/apperror"
	"github.com/your-org/shopcart-api/internal/pkg/auth"
)

// Context keys set by AuthMiddleware
const (
	customerIDKey  = "customer_id"
	tokenClaimsKey = "token_claims"
)

// Authenticator resolves a bearer token to its claims
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthMiddleware requires a valid, unrevoked access token and stores the
// customer it belongs to in the request context
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from header
		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			c.JSON(apperror.StatusCode(err), gin.H{
				"error": apperror.PublicMessage(err),
			})
			c.Abort()
			return
		}

		c.Set(customerIDKey, claims.CustomerID)
		c.Set(tokenClaimsKey, claims)

		c.Next()
	}
}

// GetCustomerIDFromContext extracts the authenticated customer id
func GetCustomerIDFromContext(c *gin.Context) (uint, bool) {
	customerID, exists := c.Get(customerIDKey)
	if !exists {
		return 0, false
	}
	id, ok := customerID.(uint)
	return id, ok
}

// GetClaimsFromContext extracts the validated token claims
func GetClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	claims, exists := c.Get(tokenClaimsKey)
	if !exists {
		return nil, false
	}
	typed, ok := claims.(*auth.Claims)
	return typed, ok
}
