// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/shopcart-api/internal/domain/cart"
	"github.com/your-org/shopcart-api/internal/domain/catalog"
	"github.com/your-org/shopcart-api/internal/domain/customer"
	"github.com/your-org/shopcart-api/internal/interfaces/http/handlers"
	"github.com/your-org/shopcart-api/internal/interfaces/http/middleware"
)

// Services bundles the domain services the routes dispatch to
type Services struct {
	Customers *customer.Service
	Catalog   *catalog.Service
	Cart      *cart.Service
}

// SetupAuthRoutes sets up account and session routes
func SetupAuthRoutes(rg *gin.RouterGroup, services *Services) {
	authHandler := handlers.NewAuthHandler(services.Customers)

	// Public auth endpoints
	rg.POST("/sign-up", authHandler.SignUp)
	rg.POST("/login", authHandler.Login)

	// Protected auth endpoints
	protected := rg.Group("")
	protected.Use(middleware.AuthMiddleware(services.Customers))
	{
		protected.POST("/logout", authHandler.Logout)
		protected.POST("/change-password/:customerId", authHandler.ChangePassword)
	}
}

// SetupCartRoutes sets up cart routes. All of them require authentication.
func SetupCartRoutes(rg *gin.RouterGroup, services *Services) {
	cartHandler := handlers.NewCartHandler(services.Cart)

	carts := rg.Group("")
	carts.Use(middleware.AuthMiddleware(services.Customers))
	{
		carts.GET("/add-to-cart/:productId", cartHandler.AddToCart)
		carts.GET("/cart", cartHandler.ShowCart)
		carts.POST("/cart", cartHandler.ShowCart)
		carts.GET("/plus-cart", cartHandler.PlusCart)
		carts.GET("/minus-cart", cartHandler.MinusCart)
		carts.GET("/remove-cart", cartHandler.RemoveCart)
	}
}

// SetupSearchRoutes sets up the public product search routes
func SetupSearchRoutes(rg *gin.RouterGroup, services *Services) {
	searchHandler := handlers.NewSearchHandler(services.Catalog)

	rg.GET("/product-search", searchHandler.ListProducts)
	rg.POST("/product-search", searchHandler.Search)
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, services *Services) {
	SetupAuthRoutes(rg, services)
	SetupCartRoutes(rg, services)
	SetupSearchRoutes(rg, services)
}
