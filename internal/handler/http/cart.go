package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// CartService is the cart use-case surface the handler depends on.
type CartService interface {
	GetCart(ctx context.Context, cartID string) (domain.CartState, error)
	AddItem(ctx context.Context, cartID string, in service.AddItemInput) (domain.CartState, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID string, quantity int) (domain.CartState, error)
	RemoveItem(ctx context.Context, cartID, productID string) (domain.CartState, error)
	ClearCart(ctx context.Context, cartID string) (domain.CartState, error)
}

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// CartResponse is the JSON representation of a cart.
type CartResponse struct {
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Shipping  decimal.Decimal   `json:"shipping"`
	Total     decimal.Decimal   `json:"total"`
}

func toCartResponse(state domain.CartState) CartResponse {
	items := state.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartResponse{
		Items:     items,
		ItemCount: state.ItemCount(),
		Subtotal:  state.Subtotal,
		Shipping:  state.Shipping,
		Total:     state.Total,
	}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.GetCart(r.Context(), cartIDFromContext(r.Context()))
	h.respond(w, r, state, err)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req service.AddItemInput
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	state, err := h.service.AddItem(r.Context(), cartIDFromContext(r.Context()), req)
	h.respond(w, r, state, err)
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateQuantityInput
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	productID := chi.URLParam(r, "productId")
	state, err := h.service.UpdateItemQuantity(r.Context(), cartIDFromContext(r.Context()), productID, req.Quantity)
	h.respond(w, r, state, err)
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	state, err := h.service.RemoveItem(r.Context(), cartIDFromContext(r.Context()), productID)
	h.respond(w, r, state, err)
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.ClearCart(r.Context(), cartIDFromContext(r.Context()))
	h.respond(w, r, state, err)
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, state domain.CartState, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toCartResponse(state))
}
