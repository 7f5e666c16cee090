// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/shopcart-api/internal/domain/cart"
	"github.com/your-org/shopcart-api/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints. Every route runs behind AuthMiddleware.
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// AddToCart handles GET /add-to-cart/:productId
func (h *CartHandler) AddToCart(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	productID, ok := parseID(c.Param("productId"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	result, err := h.cartService.AddToCart(c.Request.Context(), productID, customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	message := fmt.Sprintf("Quantity of %s has been updated", result.ProductName)
	if result.Created {
		message = fmt.Sprintf("%s added to cart", result.ProductName)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  message,
		"cart_id":  result.CartItemID,
		"quantity": result.Quantity,
	})
}

// ShowCart handles GET and POST /cart
func (h *CartHandler) ShowCart(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	view, err := h.cartService.ViewCart(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// PlusCart handles GET /plus-cart?cart_id=
func (h *CartHandler) PlusCart(c *gin.Context) {
	customerID, cartItemID, ok := h.cartItemRequest(c)
	if !ok {
		return
	}

	result, err := h.cartService.IncrementCartItem(c.Request.Context(), cartItemID, customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quantity": result.Quantity,
		"total":    result.Total,
	})
}

// MinusCart handles GET /minus-cart?cart_id=
func (h *CartHandler) MinusCart(c *gin.Context) {
	customerID, cartItemID, ok := h.cartItemRequest(c)
	if !ok {
		return
	}

	result, err := h.cartService.DecrementCartItem(c.Request.Context(), cartItemID, customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quantity": result.Quantity,
		"amount":   result.Total,
		"total":    result.Total,
	})
}

// RemoveCart handles GET /remove-cart?cart_id=
func (h *CartHandler) RemoveCart(c *gin.Context) {
	customerID, cartItemID, ok := h.cartItemRequest(c)
	if !ok {
		return
	}

	result, err := h.cartService.RemoveCartItem(c.Request.Context(), cartItemID, customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quantity": result.Quantity,
		"amount":   result.Total,
		"total":    result.Total,
	})
}

// Helper methods

func (h *CartHandler) customerID(c *gin.Context) (uint, bool) {
	customerID, exists := middleware.GetCustomerIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return 0, false
	}
	return customerID, true
}

func (h *CartHandler) cartItemRequest(c *gin.Context) (uint, uint, bool) {
	customerID, ok := h.customerID(c)
	if !ok {
		return 0, 0, false
	}

	raw, present := c.GetQuery("cart_id")
	if !present || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No cart ID provided",
		})
		return 0, 0, false
	}

	cartItemID, ok := parseID(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cart ID",
		})
		return 0, 0, false
	}

	return customerID, cartItemID, true
}
