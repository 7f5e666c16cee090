package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/your-org/shopcart-api/internal/config"
	"github.com/your-org/shopcart-api/internal/domain/cart"
	"github.com/your-org/shopcart-api/internal/domain/catalog"
	"github.com/your-org/shopcart-api/internal/domain/customer"
	server "github.com/your-org/shopcart-api/internal/interfaces/http"
	"github.com/your-org/shopcart-api/internal/pkg/logger"
	"github.com/your-org/shopcart-api/internal/testutil"
	"github.com/your-org/shopcart-api/internal/testutil/testdb"
	"gorm.io/gorm"
)

type ServerTestSuite struct {
	suite.Suite
	cfg     *config.Config
	db      *gorm.DB
	mr      *miniredis.Miniredis
	handler http.Handler

	product1 *catalog.Product
	product2 *catalog.Product
}

func (s *ServerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *ServerTestSuite) SetupTest() {
	s.cfg = testutil.Config()
	s.db = testdb.New(s.T())
	redisClient, mr := testutil.Redis(s.T())
	s.mr = mr

	s.product1 = testdb.CreateProduct(s.T(), s.db, "Test Product 1", "50.00", 10)
	s.product2 = testdb.CreateProduct(s.T(), s.db, "Test Product 2", "100.00", 0)

	s.handler = server.NewServer(s.cfg, s.db, redisClient, logger.Discard()).Handler()
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

// Request helpers

func (s *ServerTestSuite) do(method, path, token string, body string, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) postJSON(path, token string, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)
	return s.do(http.MethodPost, path, token, string(body), "application/json")
}

func (s *ServerTestSuite) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, path, "", form.Encode(), "application/x-www-form-urlencoded")
}

func (s *ServerTestSuite) get(path, token string) *httptest.ResponseRecorder {
	return s.do(http.MethodGet, path, token, "", "")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// signUpAndLogin creates an account and returns its id and access token
func (s *ServerTestSuite) signUpAndLogin(username string) (uint, string) {
	email := username + "@example.com"
	rec := s.postJSON("/api/v1/sign-up", "", map[string]string{
		"email":     email,
		"username":  username,
		"password1": "password123",
		"password2": "password123",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.postJSON("/api/v1/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	body := decode(s.T(), rec)
	token, _ := body["access_token"].(string)
	s.Require().NotEmpty(token)

	var c customer.Customer
	s.Require().NoError(s.db.Where("email = ?", email).First(&c).Error)
	return c.ID, token
}

func (s *ServerTestSuite) addToCart(token string, productID uint) uint {
	rec := s.get(fmt.Sprintf("/api/v1/add-to-cart/%d", productID), token)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	return uint(decode(s.T(), rec)["cart_id"].(float64))
}

// Tests

func (s *ServerTestSuite) TestHomeAndHealth() {
	rec := s.get("/", "")
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	rec = s.get("/health", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("healthy", decode(s.T(), rec)["status"])

	s.mr.SetError("down")
	rec = s.get("/health", "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *ServerTestSuite) TestSignUpAndLogin() {
	rec := s.postJSON("/api/v1/sign-up", "", map[string]string{
		"email":     "test@example.com",
		"username":  "test_user",
		"password1": "password123",
		"password2": "password123",
	})
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("Account created successfully", decode(s.T(), rec)["message"])

	rec = s.postJSON("/api/v1/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	})
	s.Equal(http.StatusOK, rec.Code)
	body := decode(s.T(), rec)
	s.Equal("Login successful", body["message"])
	s.Equal("Bearer", body["token_type"])
	s.NotContains(rec.Body.String(), "password_hash")

	rec = s.postJSON("/api/v1/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Invalid email or password", decode(s.T(), rec)["error"])
}

func (s *ServerTestSuite) TestSignUpPasswordMismatchCreatesNothing() {
	rec := s.postJSON("/api/v1/sign-up", "", map[string]string{
		"email":     "test@example.com",
		"username":  "test_user",
		"password1": "password123",
		"password2": "password124",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Passwords do not match", decode(s.T(), rec)["error"])

	var count int64
	s.db.Model(&customer.Customer{}).Count(&count)
	s.Zero(count)
}

func (s *ServerTestSuite) TestMissingBody() {
	rec := s.do(http.MethodPost, "/api/v1/sign-up", "", "", "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Missing data", decode(s.T(), rec)["error"])
}

func (s *ServerTestSuite) TestCartRequiresAuthentication() {
	rec := s.get("/api/v1/cart", "")
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.get("/api/v1/cart", "garbage")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Invalid or expired token", decode(s.T(), rec)["error"])
}

func (s *ServerTestSuite) TestCartFlow() {
	_, token := s.signUpAndLogin("alice")

	rec := s.get(fmt.Sprintf("/api/v1/add-to-cart/%d", s.product1.ID), token)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Test Product 1 added to cart", decode(s.T(), rec)["message"])

	rec = s.get(fmt.Sprintf("/api/v1/add-to-cart/%d", s.product1.ID), token)
	s.Require().Equal(http.StatusOK, rec.Code)
	body := decode(s.T(), rec)
	s.Equal("Quantity of Test Product 1 has been updated", body["message"])
	cartID := uint(body["cart_id"].(float64))

	s.addToCart(token, s.product2.ID)

	rec = s.get("/api/v1/cart", token)
	s.Require().Equal(http.StatusOK, rec.Code)
	body = decode(s.T(), rec)
	s.Equal(200.0, body["total"])
	lines := body["cart"].([]interface{})
	s.Require().Len(lines, 2)
	first := lines[0].(map[string]interface{})
	s.Equal("Test Product 1", first["product_name"])
	s.Equal(2.0, first["quantity"])
	s.Equal(50.0, first["price_per_item"])
	s.Equal(100.0, first["subtotal"])
	s.Contains(rec.Body.String(), `"total":200.00`)

	rec = s.do(http.MethodPost, "/api/v1/cart", token, "", "")
	s.Equal(http.StatusOK, rec.Code)

	rec = s.get(fmt.Sprintf("/api/v1/plus-cart?cart_id=%d", cartID), token)
	s.Require().Equal(http.StatusOK, rec.Code)
	body = decode(s.T(), rec)
	s.Equal(3.0, body["quantity"])
	s.Equal(250.0, body["total"])

	rec = s.get(fmt.Sprintf("/api/v1/minus-cart?cart_id=%d", cartID), token)
	s.Require().Equal(http.StatusOK, rec.Code)
	body = decode(s.T(), rec)
	s.Equal(2.0, body["quantity"])
	s.Equal(200.0, body["amount"])
	s.Equal(200.0, body["total"])

	rec = s.get(fmt.Sprintf("/api/v1/remove-cart?cart_id=%d", cartID), token)
	s.Require().Equal(http.StatusOK, rec.Code)
	body = decode(s.T(), rec)
	s.Equal(2.0, body["quantity"])
	s.Equal(100.0, body["total"])
}

func (s *ServerTestSuite) TestCartErrors() {
	_, token := s.signUpAndLogin("alice")

	rec := s.get("/api/v1/add-to-cart/9999", token)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Product not found", decode(s.T(), rec)["error"])

	rec = s.get("/api/v1/add-to-cart/abc", token)
	s.Equal(http.StatusBadRequest, rec.Code)

	for _, path := range []string{"/api/v1/plus-cart", "/api/v1/minus-cart", "/api/v1/remove-cart"} {
		rec = s.get(path, token)
		s.Equal(http.StatusBadRequest, rec.Code, path)
		s.Equal("No cart ID provided", decode(s.T(), rec)["error"])

		rec = s.get(path+"?cart_id=x", token)
		s.Equal(http.StatusBadRequest, rec.Code, path)

		rec = s.get(path+"?cart_id=9999", token)
		s.Equal(http.StatusNotFound, rec.Code, path)
		s.Equal("Cart item not found", decode(s.T(), rec)["error"])
	}
}

func (s *ServerTestSuite) TestDecrementBelowZero() {
	_, token := s.signUpAndLogin("alice")
	cartID := s.addToCart(token, s.product1.ID)

	rec := s.get(fmt.Sprintf("/api/v1/minus-cart?cart_id=%d", cartID), token)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(0.0, decode(s.T(), rec)["quantity"])

	rec = s.get(fmt.Sprintf("/api/v1/minus-cart?cart_id=%d", cartID), token)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Quantity cannot be less than zero", decode(s.T(), rec)["error"])
}

func (s *ServerTestSuite) TestCrossCustomerAccessIsForbidden() {
	_, aliceToken := s.signUpAndLogin("alice")
	_, bobToken := s.signUpAndLogin("bob")
	cartID := s.addToCart(aliceToken, s.product1.ID)

	for _, path := range []string{"/api/v1/plus-cart", "/api/v1/minus-cart", "/api/v1/remove-cart"} {
		rec := s.get(fmt.Sprintf("%s?cart_id=%d", path, cartID), bobToken)
		s.Equal(http.StatusForbidden, rec.Code, path)
		s.Equal("Access denied", decode(s.T(), rec)["error"])
	}

	var item cart.CartItem
	s.Require().NoError(s.db.First(&item, cartID).Error)
	s.Equal(1, item.Quantity)

	// Bob's own cart is unaffected by Alice's
	rec := s.get("/api/v1/cart", bobToken)
	s.Equal(http.StatusOK, rec.Code)
	s.Empty(decode(s.T(), rec)["cart"])
}

func (s *ServerTestSuite) TestLogout() {
	_, token := s.signUpAndLogin("alice")

	rec := s.do(http.MethodPost, "/api/v1/logout", token, "", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.get("/api/v1/cart", token)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ServerTestSuite) TestChangePassword() {
	aliceID, aliceToken := s.signUpAndLogin("alice")
	bobID, _ := s.signUpAndLogin("bob")

	payload := map[string]string{
		"current_password":     "password123",
		"new_password":         "newpassword456",
		"confirm_new_password": "newpassword456",
	}

	rec := s.postJSON(fmt.Sprintf("/api/v1/change-password/%d", bobID), aliceToken, payload)
	s.Equal(http.StatusForbidden, rec.Code)

	// Ownership is checked before the body is read
	rec = s.do(http.MethodPost, fmt.Sprintf("/api/v1/change-password/%d", bobID), aliceToken, "", "")
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("Unauthorized", decode(s.T(), rec)["error"])

	rec = s.postJSON("/api/v1/change-password/abc", aliceToken, payload)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.postJSON(fmt.Sprintf("/api/v1/change-password/%d", aliceID), aliceToken, payload)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("Password updated successfully", decode(s.T(), rec)["message"])

	rec = s.postJSON("/api/v1/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "newpassword456",
	})
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerTestSuite) TestOversizedBodyWithoutLength() {
	body := `{"email":"` + strings.Repeat("a", int(s.cfg.Server.MaxBodyBytes)) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sign-up", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Equal(map[string]interface{}{"error": "Request body too large"}, decode(s.T(), rec))
}

func (s *ServerTestSuite) TestMalformedBodyHidesDecoderError() {
	rec := s.do(http.MethodPost, "/api/v1/login", "", `{"email":`, "application/json")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(map[string]interface{}{"error": "Invalid request data"}, decode(s.T(), rec))
}

func (s *ServerTestSuite) TestSearchWithoutFilters() {
	rec := s.get("/api/v1/product-search", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	results := decode(s.T(), rec)["results"].([]interface{})
	s.Require().Len(results, 2)

	first := results[0].(map[string]interface{})
	s.Equal("Test Product 1", first["product_name"])
	s.Equal(50.0, first["price"])
	s.Equal("In Stock", first["stock_status"])
	s.NotContains(first, "product_picture_link")

	second := results[1].(map[string]interface{})
	s.Equal("Out of Stock", second["stock_status"])
}

func (s *ServerTestSuite) TestSearchWithFilters() {
	rec := s.postForm("/api/v1/product-search", url.Values{
		"search":    {"Test"},
		"min_price": {"10"},
		"max_price": {"50"},
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	results := decode(s.T(), rec)["results"].([]interface{})
	s.Require().Len(results, 1)
	hit := results[0].(map[string]interface{})
	s.Equal("Test Product 1", hit["product_name"])
	s.Equal("In Stock", hit["stock_status"])
	s.Contains(hit, "product_picture_link")

	rec = s.postForm("/api/v1/product-search", url.Values{"search": {"NonExistentProduct"}})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Empty(decode(s.T(), rec)["results"])

	rec = s.postForm("/api/v1/product-search", url.Values{"search": {"test"}})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(decode(s.T(), rec)["results"], 2)
}

func (s *ServerTestSuite) TestSearchRejectsBadPrice() {
	rec := s.postForm("/api/v1/product-search", url.Values{
		"search":    {"Test"},
		"min_price": {"cheap"},
		"max_price": {"50"},
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid min price value", decode(s.T(), rec)["error"])
}
