// Package testdb provides a migrated in-memory database for package tests.
package testdb

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shopcart-api/internal/domain/catalog"
	"github.com/your-org/shopcart-api/internal/domain/customer"
	"github.com/your-org/shopcart-api/internal/infrastructure/database/postgres"
	"github.com/your-org/shopcart-api/internal/pkg/logger"
	"github.com/your-org/shopcart-api/internal/pkg/money"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// New opens a private in-memory SQLite database with the full schema
// migrated. The database lives until the test ends.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, dbCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	migration := postgres.NewMigration(db, logger.Discard())
	require.NoError(t, migration.RunAutoMigrations())
	require.NoError(t, migration.CreateIndexes())

	return db
}

// CreateProduct inserts a product priced in major units, e.g. "50.00"
func CreateProduct(t *testing.T, db *gorm.DB, name, price string, inStock int) *catalog.Product {
	t.Helper()

	product := &catalog.Product{
		Name:          name,
		CurrentPrice:  money.MustParse(price),
		PreviousPrice: money.MustParse(price),
		Picture:       "https://example.com/images/" + strings.ReplaceAll(strings.ToLower(name), " ", "-") + ".jpg",
		InStock:       inStock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// CreateCustomer inserts a customer with a placeholder password hash
func CreateCustomer(t *testing.T, db *gorm.DB, username string) *customer.Customer {
	t.Helper()

	c := &customer.Customer{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(c).Error)
	return c
}
