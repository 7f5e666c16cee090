// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/shopcart-api/internal/domain/catalog"
	"github.com/your-org/shopcart-api/internal/domain/customer"
	"github.com/your-org/shopcart-api/internal/pkg/money"
)

// CartItem is one line of a customer's cart. Quantity may reach zero; the
// line stays until it is removed explicitly.
type CartItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_cart_items_customer_product,priority:1" json:"customer_id"`
	ProductID  uint      `gorm:"not null;index;uniqueIndex:idx_cart_items_customer_product,priority:2" json:"product_id"`
	Quantity   int       `gorm:"not null;check:chk_cart_items_quantity,quantity >= 0" json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Product  catalog.Product   `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Customer customer.Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal is quantity times the product's current price
func (c *CartItem) Subtotal() money.Amount {
	return c.Product.CurrentPrice.Times(c.Quantity)
}

// Line is a cart item joined with its product for display
type Line struct {
	ID           uint         `json:"id"`
	ProductID    uint         `json:"product_id"`
	ProductName  string       `json:"product_name"`
	Quantity     int          `json:"quantity"`
	PricePerItem money.Amount `json:"price_per_item"`
	Subtotal     money.Amount `json:"subtotal"`
}

// View is the whole cart of one customer
type View struct {
	Items []Line       `json:"cart"`
	Total money.Amount `json:"total"`
}

// AddResult describes the outcome of AddToCart
type AddResult struct {
	CartItemID  uint
	ProductName string
	Quantity    int
	Created     bool
}

// Mutation describes a cart line after increment, decrement or removal
type Mutation struct {
	CartItemID uint
	Quantity   int          // New quantity, or the deleted quantity for removals
	Total      money.Amount // Recomputed over the customer's remaining lines
}
