// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/shopcart-api/internal/domain/customer"
	"github.com/your-org/shopcart-api/internal/interfaces/http/middleware"
)

// AuthHandler handles account and session endpoints
type AuthHandler struct {
	customerService *customer.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(customerService *customer.Service) *AuthHandler {
	return &AuthHandler{
		customerService: customerService,
	}
}

// SignUp handles POST /sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req customer.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.customerService.SignUp(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req customer.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.customerService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"access_token": session.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   session.ExpiresIn,
		"customer":     session.Customer,
	})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, exists := middleware.GetClaimsFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	if err := h.customerService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// ChangePassword handles POST /change-password/:customerId
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actingID, exists := middleware.GetCustomerIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	targetID, ok := parseID(c.Param("customerId"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid customer ID",
		})
		return
	}

	if actingID != targetID {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Unauthorized",
		})
		return
	}

	var req customer.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.customerService.ChangePassword(c.Request.Context(), actingID, targetID, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated successfully",
	})
}
