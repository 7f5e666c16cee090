// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/shopcart-api/internal/domain/cart"
	"github.com/your-org/shopcart-api/internal/domain/catalog"
	"github.com/your-org/shopcart-api/internal/domain/customer"
	"github.com/your-org/shopcart-api/internal/pkg/auth"
	"github.com/your-org/shopcart-api/internal/pkg/money"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	// Dependency order: cart items reference both customers and products
	models := []interface{}{
		&customer.Customer{},
		&catalog.Product{},
		&cart.CartItem{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates the secondary indexes used by search and cart reads
func (m *Migration) CreateIndexes() error {
	m.logger.Info("Creating additional database indexes")

	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_lower_name ON products(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_customer_created ON cart_items(customer_id, id)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("Failed to create index")
			failCount++
		} else {
			successCount++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": successCount,
		"failed":  failCount,
	}).Info("Database indexes processed")
	return nil
}

// SeedInitialData inserts development fixtures: a test customer and two
// sample products. Existing rows are left alone.
func (m *Migration) SeedInitialData(passwords *auth.PasswordManager) error {
	m.logger.Info("Seeding initial data")

	if err := m.seedTestCustomer(passwords); err != nil {
		return fmt.Errorf("failed to seed test customer: %w", err)
	}

	if err := m.seedTestProducts(); err != nil {
		return fmt.Errorf("failed to seed test products: %w", err)
	}

	m.logger.Info("Initial data seeded")
	return nil
}

func (m *Migration) seedTestCustomer(passwords *auth.PasswordManager) error {
	var existing customer.Customer
	err := m.db.Where("email = ?", "test1@example.com").First(&existing).Error
	if err == nil {
		m.logger.WithField("customer_id", existing.ID).Debug("Test customer already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := passwords.HashPassword("test123")
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	testCustomer := customer.Customer{
		Email:        "test1@example.com",
		Username:     "testuser",
		PasswordHash: hash,
	}
	if err := m.db.Create(&testCustomer).Error; err != nil {
		return err
	}

	m.logger.WithField("customer_id", testCustomer.ID).Info("Created test customer test1@example.com (password: test123)")
	return nil
}

func (m *Migration) seedTestProducts() error {
	var count int64
	if err := m.db.Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		m.logger.Debug("Products already exist, skipping product seed")
		return nil
	}

	products := []catalog.Product{
		{
			Name:          "Test Product 1",
			CurrentPrice:  money.MustParse("50.00"),
			PreviousPrice: money.MustParse("60.00"),
			Picture:       "https://example.com/images/test-product-1.jpg",
			InStock:       10,
		},
		{
			Name:          "Test Product 2",
			CurrentPrice:  money.MustParse("100.00"),
			PreviousPrice: money.MustParse("120.00"),
			Picture:       "https://example.com/images/test-product-2.jpg",
			InStock:       0,
		},
	}

	if err := m.db.Create(&products).Error; err != nil {
		return err
	}

	m.logger.WithField("count", len(products)).Info("Created test products")
	return nil
}

// GetTableInfo logs the row count of every table
func (m *Migration) GetTableInfo() error {
	tables, err := m.db.Migrator().GetTables()
	if err != nil {
		return err
	}

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			m.logger.WithError(err).WithField("table", table).Warn("Failed to count rows")
			continue
		}
		totalRecords += count
		m.logger.WithFields(logrus.Fields{
			"table":   table,
			"records": count,
		}).Info("Table info")
	}

	m.logger.WithFields(logrus.Fields{
		"tables":  len(tables),
		"records": totalRecords,
	}).Info("Database summary")
	return nil
}
