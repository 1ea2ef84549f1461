package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/middleware"
	"github.com/auroramart/storefront/internal/models"
	"github.com/auroramart/storefront/internal/recommend"
	"github.com/auroramart/storefront/internal/repository"
)

// stubVerifier treats the bearer token as the subject; tokens with an
// "admin:" prefix carry the admin role.
type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, raw string) (*middleware.Principal, error) {
	if raw == "" || raw == "invalid" {
		return nil, errors.New("invalid token")
	}
	principal := &middleware.Principal{Subject: raw}
	if strings.HasPrefix(raw, "admin:") {
		principal.Roles = []string{"admin"}
	}
	return principal, nil
}

func testRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	logger := zap.NewNop()
	router := SetupRouter(Deps{
		DB:                    db,
		Verifier:              stubVerifier{},
		Recommender:           recommend.NewEngine(nil, repository.NewProductRepository(db), logger),
		DeliveryFee:           decimal.RequireFromString("4.99"),
		FreeDeliveryThreshold: decimal.RequireFromString("150.00"),
		Logger:                logger,
	})
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Category: "Books",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestHealth(t *testing.T) {
	router, _ := testRouter(t)
	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/cart", "invalid", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequiresRole(t *testing.T) {
	router, _ := testRouter(t)
	w := doJSON(t, router, http.MethodGet, "/admin/stock/low", "alice", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestShoppingFlow(t *testing.T) {
	router, db := testRouter(t)

	// Admin stocks the catalog.
	w := doJSON(t, router, http.MethodPost, "/admin/products", "admin:root", gin.H{
		"name":     "Sourdough Loaf",
		"category": "Bakery",
		"price":    "4.50",
		"stock":    10,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))

	// Customer adds it twice; quantities merge.
	w = doJSON(t, router, http.MethodPost, "/cart/items", "alice", gin.H{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, "/cart/items", "alice", gin.H{"product_id": product.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/cart", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Lines []struct {
			Item models.CartItem `json:"item"`
		} `json:"lines"`
		Subtotal string `json:"subtotal"`
		Total    string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, 3, summary.Lines[0].Item.Quantity)
	subtotal, err := decimal.NewFromString(summary.Subtotal)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("13.50").Equal(subtotal))

	// Checkout review includes the priced cart.
	w = doJSON(t, router, http.MethodGet, "/checkout", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Confirm the order.
	w = doJSON(t, router, http.MethodPost, "/checkout/confirm", "alice", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "18.49", order.TotalAmount.StringFixed(2)) // 13.50 + 4.99

	// Stock went down, cart is empty again.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 7, reloaded.Stock)

	w = doJSON(t, router, http.MethodGet, "/cart", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Empty(t, summary.Lines)

	// The order shows up in the customer's history but not in another's.
	w = doJSON(t, router, http.MethodGet, "/orders/"+strconv.Itoa(int(order.ID)), "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, "/orders/"+strconv.Itoa(int(order.ID)), "mallory", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutEmptyCart(t *testing.T) {
	router, _ := testRouter(t)
	w := doJSON(t, router, http.MethodPost, "/checkout/confirm", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	router, db := testRouter(t)
	product := createProduct(t, db, "Rare Print", "99.00", 1)

	w := doJSON(t, router, http.MethodPost, "/cart/items", "alice", gin.H{"product_id": product.ID, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/checkout/confirm", "alice", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Rare Print", resp["product"])

	// Cart left intact for the customer to adjust.
	w = doJSON(t, router, http.MethodGet, "/cart", "alice", nil)
	var summary struct {
		Lines []json.RawMessage `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Len(t, summary.Lines, 1)
}

func TestCartItemUpdateAndRemove(t *testing.T) {
	router, db := testRouter(t)
	product := createProduct(t, db, "Lamp", "20.00", 10)

	w := doJSON(t, router, http.MethodPost, "/cart/items", "alice", gin.H{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	itemPath := "/cart/items/" + strconv.Itoa(int(item.ID))
	w = doJSON(t, router, http.MethodPut, itemPath, "alice", gin.H{"quantity": 0})
	assert.Equal(t, http.StatusOK, w.Code)

	// Removal by zero already deleted the row.
	w = doJSON(t, router, http.MethodDelete, itemPath, "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderStatusManagement(t *testing.T) {
	router, db := testRouter(t)
	product := createProduct(t, db, "Lamp", "20.00", 10)

	w := doJSON(t, router, http.MethodPost, "/cart/items", "alice", gin.H{"product_id": product.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, "/checkout/confirm", "alice", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	statusPath := "/admin/orders/" + strconv.Itoa(int(order.ID)) + "/status"

	// Customers cannot manage statuses.
	w = doJSON(t, router, http.MethodPut, statusPath, "alice", gin.H{"status": "Processing"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPut, statusPath, "admin:root", gin.H{"status": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "skipping Processing is rejected")

	w = doJSON(t, router, http.MethodPut, statusPath, "admin:root", gin.H{"status": "Processing"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminProductLifecycle(t *testing.T) {
	router, db := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/admin/products", "admin:root", gin.H{
		"name":              "Desk Lamp",
		"category":          "Home & Kitchen",
		"price":             "24.99",
		"stock":             3,
		"reorder_threshold": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))

	// stock 3 <= threshold 5: flagged for restocking.
	w = doJSON(t, router, http.MethodGet, "/admin/stock/low", "admin:root", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Desk Lamp")

	productPath := "/admin/products/" + strconv.Itoa(int(product.ID))
	w = doJSON(t, router, http.MethodPut, productPath, "admin:root", gin.H{
		"name":              "Desk Lamp",
		"category":          "Home & Kitchen",
		"price":             "19.99",
		"stock":             50,
		"reorder_threshold": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, productPath, "admin:root", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Soft-deleted: gone from the catalog.
	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestProductDetailWithRecommendations(t *testing.T) {
	router, db := testRouter(t)
	product := createProduct(t, db, "Novel", "12.00", 5)
	rating := decimal.RequireFromString("4.9")
	other := &models.Product{Name: "Atlas", Category: "Books", Price: decimal.RequireFromString("30.00"), Stock: 5, Rating: &rating}
	require.NoError(t, db.Create(other).Error)

	w := doJSON(t, router, http.MethodGet, "/products/"+strconv.Itoa(int(product.ID)), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Atlas")
}

func TestFavoriteToggle(t *testing.T) {
	router, db := testRouter(t)
	product := createProduct(t, db, "Novel", "12.00", 5)
	path := "/products/" + strconv.Itoa(int(product.ID)) + "/favorite"

	w := doJSON(t, router, http.MethodPost, path, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"favorited":true`)

	w = doJSON(t, router, http.MethodPost, path, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"favorited":false`)
}

func TestChatbot(t *testing.T) {
	router, _ := testRouter(t)
	w := doJSON(t, router, http.MethodPost, "/chatbot", "", gin.H{"message": "when is my delivery?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "4.99")
}

func TestOnboardingEndpoint(t *testing.T) {
	router, db := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/profile/onboarding", "alice", gin.H{
		"age":        34,
		"gender":     "female",
		"employment": "Student",
		"income":     45000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var customer models.Customer
	require.NoError(t, db.Where("subject = ?", "alice").First(&customer).Error)
	assert.Equal(t, "30k-60k", customer.IncomeRange)

	var carts int64
	require.NoError(t, db.Model(&models.Cart{}).Where("customer_id = ?", customer.ID).Count(&carts).Error)
	assert.EqualValues(t, 1, carts)
}
