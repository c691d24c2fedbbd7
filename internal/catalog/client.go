// Package catalog reads products from an upstream catalog service over HTTP.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

const upstreamName = "catalog"

// maxListSize is the page size requested from the upstream list endpoint.
const maxListSize = 100

type getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Client implements repository.ProductCatalog against
// GET {base}/api/v1/products[/{id}].
type Client struct {
	baseURL string
	http    getter
}

// NewClient creates a catalog client for baseURL guarded by a circuit breaker.
func NewClient(baseURL string, cfg httpclient.Config, logger *slog.Logger) *Client {
	breaker := httpclient.NewCircuitBreakerClient(
		httpclient.New(cfg),
		httpclient.DefaultCircuitBreakerConfig(upstreamName),
		logger,
	)
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: breaker}
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// GetByID fetches a single product. A 404 upstream maps to apperrors.ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	endpoint := c.baseURL + "/api/v1/products/" + url.PathEscape(id)

	var p domain.Product
	if err := c.get(ctx, endpoint, &p); err != nil {
		if apperrors.HTTPStatus(err) == http.StatusNotFound {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, err
	}
	return &p, nil
}

// List fetches products matching filter.
func (c *Client) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(maxListSize))
	if filter.Category != nil {
		q.Set("category", *filter.Category)
	}
	if filter.Gender != nil {
		q.Set("gender", *filter.Gender)
	}
	if filter.Search != nil {
		q.Set("search", *filter.Search)
	}
	if filter.MinPrice != nil {
		q.Set("min_price", filter.MinPrice.String())
	}
	if filter.MaxPrice != nil {
		q.Set("max_price", filter.MaxPrice.String())
	}
	if filter.Featured != nil {
		q.Set("featured", strconv.FormatBool(*filter.Featured))
	}

	products := make([]domain.Product, 0)
	if err := c.get(ctx, c.baseURL+"/api/v1/products?"+q.Encode(), &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = make([]domain.Product, 0)
	}
	return products, nil
}

func (c *Client) get(ctx context.Context, endpoint string, dst any) error {
	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return apperrors.Wrap(apperrors.ServiceUnavailable(err.Error()), "call catalog")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusNotFound {
			_ = resp.Body.Close()
			return apperrors.NotFound(upstreamName, endpoint)
		}
		return httpclient.ParseResponseError(resp, upstreamName)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("decode catalog response: missing data")
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("decode catalog data: %w", err)
	}
	return nil
}
