package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/engine"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository/memory"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() *memory.Catalog {
	return memory.NewCatalog(
		domain.Product{
			ID: "tee", Name: "Cotton Tee", Price: decimal.RequireFromString("25.00"),
			Category: "T-Shirts", Gender: domain.GenderUnisex,
			Sizes: []string{"S", "M"}, Colors: []string{"Black"}, InStock: true, Featured: true,
		},
		domain.Product{
			ID: "dress", Name: "Floral Dress", Price: decimal.RequireFromString("79.99"),
			Category: "Dresses", Gender: domain.GenderWomen,
			Sizes: []string{"M"}, Colors: []string{"Blue"}, InStock: true,
		},
		domain.Product{
			ID: "boots", Name: "Leather Boots", Price: decimal.RequireFromString("120.00"),
			Category: "Shoes", Gender: domain.GenderMen,
			Sizes: []string{"42"}, Colors: []string{"Brown"}, InStock: false,
		},
	)
}

// tokens accepts "Bearer user-1-token" as user-1.
func tokens(token string) (*middleware.Claims, error) {
	if token != "user-1-token" {
		return nil, errors.New("bad token")
	}
	return &middleware.Claims{UserID: "user-1", Role: "customer"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := testLogger()
	catalog := testCatalog()
	carts := service.NewCartService(memory.NewCartStore(), catalog, event.Discard{}, engine.Options{}, logger)
	return NewRouter(RouterConfig{
		Carts:   carts,
		Catalog: catalog,
		Health:  health.NewHandler("cart"),
		Tokens:  tokens,
		CORS:    middleware.DefaultCORSConfig(),
		Logger:  logger,
	})
}

type cartEnvelope struct {
	Data  CartResponse            `json:"data"`
	Error *httputil.ErrorResponse `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartEnvelope {
	t.Helper()
	var env cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestGuestCart_IssuedIDIsReusable(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"tee","quantity":2,"size":"M","color":"Black"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	guestID := rec.Header().Get(CartIDHeader)
	_, err := uuid.Parse(guestID)
	require.NoError(t, err)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	env := decodeCart(t, rec)
	assert.Equal(t, 2, env.Data.ItemCount)
	assert.True(t, decimal.RequireFromString("50").Equal(env.Data.Subtotal))

	rec = do(t, h, http.MethodGet, "/api/v1/cart", "", map[string]string{CartIDHeader: guestID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, guestID, rec.Header().Get(CartIDHeader))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, 2, decodeCart(t, rec).Data.ItemCount)

	rec = do(t, h, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, guestID, rec.Header().Get(CartIDHeader))
	assert.Equal(t, 0, decodeCart(t, rec).Data.ItemCount)
}

func TestGuestCart_RejectsMalformedID(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/cart", "", map[string]string{CartIDHeader: "user-1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeCart(t, rec).Error.Code)
}

func TestUserCart_KeyedByToken(t *testing.T) {
	h := newTestRouter(t)
	auth := map[string]string{"Authorization": "Bearer user-1-token"}

	rec := do(t, h, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"dress","quantity":1,"size":"M","color":"Blue"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Header().Get(CartIDHeader))

	rec = do(t, h, http.MethodGet, "/api/v1/cart", "", auth)
	assert.Equal(t, 1, decodeCart(t, rec).Data.ItemCount)

	rec = do(t, h, http.MethodGet, "/api/v1/cart", "", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartItems_Lifecycle(t *testing.T) {
	h := newTestRouter(t)
	guest := map[string]string{CartIDHeader: uuid.NewString()}

	rec := do(t, h, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"tee","quantity":1,"size":"S","color":"Black"}`, guest)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"dress","quantity":1,"size":"M","color":"Blue"}`, guest)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/cart/items/tee", `{"quantity":4}`, guest)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeCart(t, rec)
	assert.Equal(t, 5, env.Data.ItemCount)

	rec = do(t, h, http.MethodDelete, "/api/v1/cart/items/dress", "", guest)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeCart(t, rec)
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, "tee", env.Data.Items[0].Product.ID)

	rec = do(t, h, http.MethodDelete, "/api/v1/cart", "", guest)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeCart(t, rec)
	assert.Empty(t, env.Data.Items)
	assert.True(t, env.Data.Total.IsZero())
}

func TestAddItem_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
		wantCode    string
	}{
		{"validation", `{"product_id":"tee","quantity":0,"size":"M","color":"Black"}`, "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed json", `{"product_id":`, "", http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown product", `{"product_id":"hat","quantity":1,"size":"M","color":"Black"}`, "", http.StatusNotFound, "NOT_FOUND"},
		{"out of stock", `{"product_id":"boots","quantity":1,"size":"42","color":"Brown"}`, "", http.StatusUnprocessableEntity, "OUT_OF_STOCK"},
		{"bad size", `{"product_id":"tee","quantity":1,"size":"XXL","color":"Black"}`, "", http.StatusBadRequest, "INVALID_INPUT"},
		{"wrong content type", `product_id=tee`, "text/plain", http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t)
			headers := map[string]string{CartIDHeader: uuid.NewString()}
			if tt.contentType != "" {
				headers["Content-Type"] = tt.contentType
			}

			rec := do(t, h, http.MethodPost, "/api/v1/cart/items", tt.body, headers)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			env := decodeCart(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

type productPage struct {
	Data       []domain.Product `json:"data"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	HasNext    bool             `json:"has_next"`
}

func TestListProducts(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"all", "", []string{"tee", "dress", "boots"}},
		{"category", "?category=Dresses", []string{"dress"}},
		{"gender", "?gender=men", []string{"boots"}},
		{"search", "?search=floral", []string{"dress"}},
		{"price range snake", "?min_price=50&max_price=100", []string{"dress"}},
		{"price range camel", "?minPrice=100", []string{"boots"}},
		{"featured", "?featured=true", []string{"tee"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/v1/products"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))

			var page productPage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
			ids := make([]string, 0, len(page.Data))
			for _, p := range page.Data {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, len(tt.wantIDs), page.TotalCount)
		})
	}
}

func TestListProducts_Pagination(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/products?page=1&per_page=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page productPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.TotalCount)
	assert.True(t, page.HasNext)
}

func TestListProducts_InvalidFilters(t *testing.T) {
	h := newTestRouter(t)

	for _, q := range []string{"?gender=kids", "?min_price=abc", "?max_price=-1", "?featured=maybe", "?min_price=10&max_price=5"} {
		rec := do(t, h, http.MethodGet, "/api/v1/products"+q, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestGetProduct(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/products/tee", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Cotton Tee", env.Data.Name)

	rec = do(t, h, http.MethodGet, "/api/v1/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/ready", "", nil).Code)

	rec := do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodOptions, "/api/v1/cart/items", "", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
