package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/shopcart-api/internal/domain/catalog"
	"github.com/your-org/shopcart-api/internal/pkg/money"
)

// SearchHandler handles product search
type SearchHandler struct {
	catalogService *catalog.Service
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(catalogService *catalog.Service) *SearchHandler {
	return &SearchHandler{
		catalogService: catalogService,
	}
}

// productResult is one search hit. The picture link is only filled on the
// filtered (POST) path.
type productResult struct {
	ID                 uint         `json:"id"`
	ProductName        string       `json:"product_name"`
	Price              money.Amount `json:"price"`
	ProductPictureLink *string      `json:"product_picture_link,omitempty"`
	StockStatus        string       `json:"stock_status"`
}

// ListProducts handles GET /product-search
func (h *SearchHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": toResults(products, false),
	})
}

// Search handles POST /product-search with form fields search, min_price
// and max_price
func (h *SearchHandler) Search(c *gin.Context) {
	var filter catalog.SearchFilter

	if query, present := c.GetPostForm("search"); present {
		filter.Query = &query
	}

	minPrice, ok := parsePriceField(c, "min_price")
	if !ok {
		return
	}
	maxPrice, ok := parsePriceField(c, "max_price")
	if !ok {
		return
	}
	filter.MinPrice = minPrice
	filter.MaxPrice = maxPrice

	products, err := h.catalogService.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": toResults(products, true),
	})
}

// parsePriceField reads an optional price bound; a blank field counts as absent
func parsePriceField(c *gin.Context, field string) (*money.Amount, bool) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, true
	}

	amount, err := money.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + strings.ReplaceAll(field, "_", " ") + " value",
		})
		return nil, false
	}
	return &amount, true
}

func toResults(products []catalog.Product, withPicture bool) []productResult {
	results := make([]productResult, len(products))
	for i := range products {
		results[i] = productResult{
			ID:          products[i].ID,
			ProductName: products[i].Name,
			Price:       products[i].CurrentPrice,
			StockStatus: products[i].StockStatus(),
		}
		if withPicture {
			picture := products[i].Picture
			results[i].ProductPictureLink = &picture
		}
	}
	return results
}
