// internal/domain/customer/entity.go
package customer

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Customer is an account that can own cart items
type Customer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:150" json:"email"`
	Username     string    `gorm:"uniqueIndex;not null;size:100" json:"username"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate normalizes the email before insert
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	c.Email = normalizeEmail(c.Email)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
