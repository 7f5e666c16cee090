// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/your-org/shopcart-api/internal/pkg/money"
)

// Stock status labels
const (
	StatusInStock    = "In Stock"
	StatusOutOfStock = "Out of Stock"
)

// Product represents a catalog entry. Products are read-only here; they are
// managed by the catalog administration tooling.
type Product struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"not null;size:100;index" json:"product_name"`
	CurrentPrice  money.Amount `gorm:"not null;index" json:"current_price"` // Minor units
	PreviousPrice money.Amount `gorm:"not null;default:0" json:"previous_price"`
	Picture       string       `gorm:"size:1000" json:"product_picture"`
	InStock       int          `gorm:"not null;default:0" json:"in_stock"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// StockStatus returns "In Stock" when at least one unit is available
func (p *Product) StockStatus() string {
	if p.InStock > 0 {
		return StatusInStock
	}
	return StatusOutOfStock
}
