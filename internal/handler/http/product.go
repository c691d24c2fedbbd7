package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/pagination"
)

// ProductHandler serves catalog reads.
type ProductHandler struct {
	catalog repository.ProductCatalog
	logger  *slog.Logger
}

// NewProductHandler creates a product HTTP handler.
func NewProductHandler(catalog repository.ProductCatalog, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: logger}
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WritePage(w, pagination.Paginate(products, pagination.FromRequest(r)))
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, product)
}

// parseProductFilter reads the catalog query. Price bounds are accepted as
// min_price/max_price or the camelCase minPrice/maxPrice the storefront uses.
func parseProductFilter(r *http.Request) (repository.ProductFilter, error) {
	q := r.URL.Query()
	var f repository.ProductFilter

	if v := q.Get("category"); v != "" {
		f.Category = &v
	}
	if v := q.Get("gender"); v != "" {
		if !domain.IsValidGender(v) {
			return f, apperrors.InvalidInput("gender must be one of men, women, unisex")
		}
		f.Gender = &v
	}
	if v := q.Get("search"); v != "" {
		f.Search = &v
	}

	var err error
	if f.MinPrice, err = parsePrice(q.Get("min_price"), q.Get("minPrice"), "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePrice(q.Get("max_price"), q.Get("maxPrice"), "max_price"); err != nil {
		return f, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return f, apperrors.InvalidInput("min_price must not exceed max_price")
	}

	if v := q.Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return f, apperrors.InvalidInput("featured must be true or false")
		}
		f.Featured = &featured
	}
	return f, nil
}

func parsePrice(snake, camel, name string) (*decimal.Decimal, error) {
	v := snake
	if v == "" {
		v = camel
	}
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return nil, apperrors.InvalidInput(name + " must be a non-negative number")
	}
	return &d, nil
}
