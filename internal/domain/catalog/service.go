// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/shopcart-api/internal/pkg/apperror"
	"github.com/your-org/shopcart-api/internal/pkg/money"
	"gorm.io/gorm"
)

// Service handles catalog reads and product search
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// SearchFilter holds the optional search criteria. A nil or blank Query
// disables name matching; the price range applies only when both bounds are set.
type SearchFilter struct {
	Query    *string
	MinPrice *money.Amount
	MaxPrice *money.Amount
}

// HasPriceRange reports whether both price bounds are present
func (f SearchFilter) HasPriceRange() bool {
	return f.MinPrice != nil && f.MaxPrice != nil
}

// ListProducts returns the full catalog ordered by id
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.Search(ctx, SearchFilter{})
}

// Search filters the catalog by name substring and inclusive price range
func (s *Service) Search(ctx context.Context, filter SearchFilter) ([]Product, error) {
	query := s.db.WithContext(ctx).Model(&Product{})

	if filter.Query != nil {
		if term := strings.TrimSpace(*filter.Query); term != "" {
			pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
			query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", pattern)
		}
	}

	if filter.HasPriceRange() {
		query = query.Where("current_price >= ? AND current_price <= ?", int64(*filter.MinPrice), int64(*filter.MaxPrice))
	}

	products := []Product{}
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		s.logger.WithFields(logrus.Fields{
			"op":    "catalog.search",
			"error": err.Error(),
		}).Error("Product search failed")
		return nil, fmt.Errorf("catalog.search: %w", apperror.Persistence("Failed to search products"))
	}

	return products, nil
}

// GetProduct retrieves a single product by id
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Product not found")
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"op":         "catalog.get_product",
			"product_id": id,
			"error":      err.Error(),
		}).Error("Product lookup failed")
		return nil, fmt.Errorf("catalog.get_product: %w", apperror.Persistence("Failed to retrieve product"))
	}
	return &product, nil
}

// escapeLike makes user input literal inside a LIKE pattern
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
