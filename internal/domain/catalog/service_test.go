package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shopcart-api/internal/domain/catalog"
	"github.com/your-org/shopcart-api/internal/pkg/apperror"
	"github.com/your-org/shopcart-api/internal/pkg/logger"
	"github.com/your-org/shopcart-api/internal/pkg/money"
	"github.com/your-org/shopcart-api/internal/testutil/testdb"
)

func newSearchFixture(t *testing.T) *catalog.Service {
	t.Helper()

	db := testdb.New(t)
	testdb.CreateProduct(t, db, "Test Product 1", "50.00", 10)
	testdb.CreateProduct(t, db, "Test Product 2", "100.00", 0)
	testdb.CreateProduct(t, db, "Garden 100% Hose_XL", "25.50", 3)

	return catalog.NewService(db, logger.Discard())
}

func strPtr(s string) *string { return &s }

func amountPtr(s string) *money.Amount {
	a := money.MustParse(s)
	return &a
}

func names(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestSearch(t *testing.T) {
	svc := newSearchFixture(t)

	tests := []struct {
		name   string
		filter catalog.SearchFilter
		want   []string
	}{
		{
			name:   "no filter returns the catalog in id order",
			filter: catalog.SearchFilter{},
			want:   []string{"Test Product 1", "Test Product 2", "Garden 100% Hose_XL"},
		},
		{
			name:   "blank query is ignored",
			filter: catalog.SearchFilter{Query: strPtr("   ")},
			want:   []string{"Test Product 1", "Test Product 2", "Garden 100% Hose_XL"},
		},
		{
			name:   "substring is case-insensitive",
			filter: catalog.SearchFilter{Query: strPtr("test")},
			want:   []string{"Test Product 1", "Test Product 2"},
		},
		{
			name:   "absent substring matches nothing",
			filter: catalog.SearchFilter{Query: strPtr("NonExistentProduct")},
			want:   []string{},
		},
		{
			name:   "percent is matched literally",
			filter: catalog.SearchFilter{Query: strPtr("100%")},
			want:   []string{"Garden 100% Hose_XL"},
		},
		{
			name:   "underscore is matched literally",
			filter: catalog.SearchFilter{Query: strPtr("t_p")},
			want:   []string{},
		},
		{
			name: "price bounds are inclusive",
			filter: catalog.SearchFilter{
				Query:    strPtr("Test"),
				MinPrice: amountPtr("10"),
				MaxPrice: amountPtr("50"),
			},
			want: []string{"Test Product 1"},
		},
		{
			name: "price range without query",
			filter: catalog.SearchFilter{
				MinPrice: amountPtr("50"),
				MaxPrice: amountPtr("100"),
			},
			want: []string{"Test Product 1", "Test Product 2"},
		},
		{
			name: "single bound is ignored",
			filter: catalog.SearchFilter{
				Query:    strPtr("Test"),
				MinPrice: amountPtr("75"),
			},
			want: []string{"Test Product 1", "Test Product 2"},
		},
		{
			name: "inverted range matches nothing",
			filter: catalog.SearchFilter{
				MinPrice: amountPtr("100"),
				MaxPrice: amountPtr("10"),
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestListProducts(t *testing.T) {
	svc := newSearchFixture(t)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, catalog.StatusInStock, products[0].StockStatus())
	assert.Equal(t, catalog.StatusOutOfStock, products[1].StockStatus())
}

func TestGetProduct(t *testing.T) {
	db := testdb.New(t)
	created := testdb.CreateProduct(t, db, "Lamp", "19.99", 1)
	svc := catalog.NewService(db, logger.Discard())

	got, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Name)
	assert.Equal(t, money.Amount(1999), got.CurrentPrice)

	_, err = svc.GetProduct(context.Background(), created.ID+1)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSearchFilter(t *testing.T) {
	assert.False(t, catalog.SearchFilter{}.HasPriceRange())
	assert.False(t, catalog.SearchFilter{MinPrice: amountPtr("1")}.HasPriceRange())
	assert.False(t, catalog.SearchFilter{MaxPrice: amountPtr("2")}.HasPriceRange())
	assert.True(t, catalog.SearchFilter{MinPrice: amountPtr("1"), MaxPrice: amountPtr("2")}.HasPriceRange())
}
