// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/shopcart-api/internal/domain/catalog"
	"github.com/your-org/shopcart-api/internal/pkg/apperror"
	"github.com/your-org/shopcart-api/internal/pkg/money"
	"gorm.io/gorm"
)

// Service handles cart business logic. Every operation acts on behalf of the
// customer id passed in by the caller; there is no ambient customer.
type Service struct {
	db      *gorm.DB
	catalog *catalog.Service
	logger  *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, catalogService *catalog.Service, logger *logrus.Logger) *Service {
	return &Service{
		db:      db,
		catalog: catalogService,
		logger:  logger,
	}
}

// AddToCart puts one unit of a product into the customer's cart, creating the
// line on first add
func (s *Service) AddToCart(ctx context.Context, productID, customerID uint) (*AddResult, error) {
	prod, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	result := &AddResult{ProductName: prod.Name}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing CartItem
		err := tx.Where("customer_id = ? AND product_id = ?", customerID, productID).First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			newItem := CartItem{
				CustomerID: customerID,
				ProductID:  productID,
				Quantity:   1,
			}
			if err := tx.Create(&newItem).Error; err != nil {
				return err
			}
			result.CartItemID = newItem.ID
			result.Quantity = newItem.Quantity
			result.Created = true
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&CartItem{}).
			Where("id = ?", existing.ID).
			Update("quantity", gorm.Expr("quantity + ?", 1)).Error; err != nil {
			return err
		}

		quantity, err := s.quantityOf(tx, existing.ID)
		if err != nil {
			return err
		}
		result.CartItemID = existing.ID
		result.Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, s.fail("cart.add", customerID, err, "Failed to add item to cart")
	}

	return result, nil
}

// ViewCart lists every line of the customer's cart with subtotals and total
func (s *Service) ViewCart(ctx context.Context, customerID uint) (*View, error) {
	var view View

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, err := s.loadLines(tx, customerID)
		if err != nil {
			return err
		}

		total, err := s.cartTotal(tx, customerID)
		if err != nil {
			return err
		}

		view = View{Items: lines, Total: total}
		return nil
	})
	if err != nil {
		return nil, s.fail("cart.view", customerID, err, "Failed to retrieve cart")
	}

	return &view, nil
}

// IncrementCartItem adds one unit to a line owned by the customer
func (s *Service) IncrementCartItem(ctx context.Context, cartItemID, customerID uint) (*Mutation, error) {
	var result Mutation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.ownedItem(tx, cartItemID, customerID)
		if err != nil {
			return err
		}

		if err := tx.Model(&CartItem{}).
			Where("id = ? AND customer_id = ?", item.ID, customerID).
			Update("quantity", gorm.Expr("quantity + ?", 1)).Error; err != nil {
			return err
		}

		return s.fillMutation(tx, item.ID, customerID, &result)
	})
	if err != nil {
		return nil, s.fail("cart.increment", customerID, err, "Failed to update cart item")
	}

	return &result, nil
}

// DecrementCartItem removes one unit from a line owned by the customer. A line
// already at zero is left untouched and reported as InvalidState.
func (s *Service) DecrementCartItem(ctx context.Context, cartItemID, customerID uint) (*Mutation, error) {
	var result Mutation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.ownedItem(tx, cartItemID, customerID)
		if err != nil {
			return err
		}

		// The quantity guard lives in the statement so concurrent decrements
		// can never drive the line negative.
		res := tx.Model(&CartItem{}).
			Where("id = ? AND customer_id = ? AND quantity > 0", item.ID, customerID).
			Update("quantity", gorm.Expr("quantity - ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.InvalidState("Quantity cannot be less than zero")
		}

		return s.fillMutation(tx, item.ID, customerID, &result)
	})
	if err != nil {
		return nil, s.fail("cart.decrement", customerID, err, "Failed to update cart item")
	}

	return &result, nil
}

// RemoveCartItem deletes a line owned by the customer regardless of quantity
func (s *Service) RemoveCartItem(ctx context.Context, cartItemID, customerID uint) (*Mutation, error) {
	var result Mutation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.ownedItem(tx, cartItemID, customerID)
		if err != nil {
			return err
		}

		if err := tx.Where("id = ? AND customer_id = ?", item.ID, customerID).Delete(&CartItem{}).Error; err != nil {
			return err
		}

		total, err := s.cartTotal(tx, customerID)
		if err != nil {
			return err
		}

		result = Mutation{
			CartItemID: item.ID,
			Quantity:   item.Quantity,
			Total:      total,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("cart.remove", customerID, err, "Failed to remove cart item")
	}

	return &result, nil
}

// Private helper methods

// ownedItem loads a cart item and checks it belongs to customerID
func (s *Service) ownedItem(tx *gorm.DB, cartItemID, customerID uint) (*CartItem, error) {
	var item CartItem
	err := tx.Where("id = ?", cartItemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Cart item not found")
	}
	if err != nil {
		return nil, err
	}

	if item.CustomerID != customerID {
		s.logger.WithFields(logrus.Fields{
			"cart_item_id": cartItemID,
			"customer_id":  customerID,
			"owner_id":     item.CustomerID,
		}).Warn("Cart item ownership check failed")
		return nil, apperror.Forbidden("Access denied")
	}

	return &item, nil
}

func (s *Service) quantityOf(tx *gorm.DB, cartItemID uint) (int, error) {
	var item CartItem
	if err := tx.Select("quantity").Where("id = ?", cartItemID).First(&item).Error; err != nil {
		return 0, err
	}
	return item.Quantity, nil
}

func (s *Service) fillMutation(tx *gorm.DB, cartItemID, customerID uint, out *Mutation) error {
	quantity, err := s.quantityOf(tx, cartItemID)
	if err != nil {
		return err
	}

	total, err := s.cartTotal(tx, customerID)
	if err != nil {
		return err
	}

	*out = Mutation{
		CartItemID: cartItemID,
		Quantity:   quantity,
		Total:      total,
	}
	return nil
}

// loadLines reads the customer's cart with product details
func (s *Service) loadLines(db *gorm.DB, customerID uint) ([]Line, error) {
	var items []CartItem
	if err := db.Preload("Product").
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	lines := make([]Line, len(items))
	for i := range items {
		lines[i] = Line{
			ID:           items[i].ID,
			ProductID:    items[i].ProductID,
			ProductName:  items[i].Product.Name,
			Quantity:     items[i].Quantity,
			PricePerItem: items[i].Product.CurrentPrice,
			Subtotal:     items[i].Subtotal(),
		}
	}

	return lines, nil
}

// cartTotal sums quantity times current price over the customer's cart in a
// single join
func (s *Service) cartTotal(db *gorm.DB, customerID uint) (money.Amount, error) {
	var total int64
	err := db.Table("cart_items").
		Select("CAST(COALESCE(SUM(cart_items.quantity * products.current_price), 0) AS BIGINT)").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.customer_id = ?", customerID).
		Scan(&total).Error
	if err != nil {
		return money.Zero, err
	}
	return money.Amount(total), nil
}

// fail passes domain errors through and turns anything else into a logged,
// generic persistence failure
func (s *Service) fail(op string, customerID uint, err error, message string) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"op":          op,
		"customer_id": customerID,
		"error":       err.Error(),
	}).Error(message)
	return fmt.Errorf("%s: %w", op, apperror.Persistence(message))
}
