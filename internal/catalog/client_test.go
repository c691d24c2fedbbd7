package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := httpclient.Config{Timeout: 2 * time.Second, MaxConnsPerHost: 2}
	return NewClient(server.URL+"/", cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const teeJSON = `{
	"id": "premium-cotton-t-shirt",
	"name": "Premium Cotton T-Shirt",
	"price": 29.99,
	"sizes": ["S", "M"],
	"colors": ["Black"],
	"in_stock": true
}`

func TestClient_GetByID(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/premium-cotton-t-shirt", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":` + teeJSON + `}`))
	})

	p, err := c.GetByID(context.Background(), "premium-cotton-t-shirt")
	require.NoError(t, err)
	assert.Equal(t, "Premium Cotton T-Shirt", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("29.99")))
	assert.True(t, p.HasSize("M"))
	assert.True(t, p.InStock)
}

func TestClient_GetByID_NotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"product not found"}}`))
	})

	_, err := c.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "product with id missing not found")
}

func TestClient_GetByID_UpstreamDown(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetByID(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(err))
}

func TestClient_GetByID_MalformedBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":`))
	})

	_, err := c.GetByID(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog response")
}

func TestClient_GetByID_MissingData(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.GetByID(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing data")
}

func TestClient_List_ForwardsFilter(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "T-Shirts", q.Get("category"))
		assert.Equal(t, "unisex", q.Get("gender"))
		assert.Equal(t, "cotton", q.Get("search"))
		assert.Equal(t, "10", q.Get("min_price"))
		assert.Equal(t, "49.5", q.Get("max_price"))
		assert.Equal(t, "true", q.Get("featured"))
		assert.Equal(t, "100", q.Get("per_page"))
		_, _ = w.Write([]byte(`{"data":[` + teeJSON + `],"total_count":1}`))
	})

	category, gender, search, featured := "T-Shirts", "unisex", "cotton", true
	minPrice, maxPrice := decimal.NewFromInt(10), decimal.RequireFromString("49.5")
	products, err := c.List(context.Background(), repository.ProductFilter{
		Category: &category,
		Gender:   &gender,
		Search:   &search,
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Featured: &featured,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "premium-cotton-t-shirt", products[0].ID)
}

func TestClient_List_NullData(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	})

	products, err := c.List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestClient_List_BadRequest(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"INVALID_INPUT","message":"bad gender"}}`))
	})

	_, err := c.List(context.Background(), repository.ProductFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
