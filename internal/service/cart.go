// Package service implements the cart use cases on top of the engine: it
// validates requests against the catalog, binds one engine per cart to the
// cart store and reports committed changes as events and metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/engine"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/tracing"
)

// AddItemInput holds the parameters for adding an item to the cart.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required,max=128"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=10"`
	Size      string `json:"size" validate:"required,max=32"`
	Color     string `json:"color" validate:"required,max=32"`
}

// UpdateQuantityInput holds the body of a quantity update.
type UpdateQuantityInput struct {
	Quantity int `json:"quantity"`
}

// Publisher announces committed cart changes.
type Publisher interface {
	PublishCartUpdated(ctx context.Context, cartID string, state domain.CartState) error
	PublishCartCleared(ctx context.Context, cartID string) error
}

// CartService implements the cart operations exposed over HTTP.
type CartService struct {
	store     repository.CartStore
	catalog   repository.ProductCatalog
	publisher Publisher
	opts      engine.Options
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewCartService creates a cart service. opts is applied to every engine it
// opens.
func NewCartService(
	store repository.CartStore,
	catalog repository.ProductCatalog,
	publisher Publisher,
	opts engine.Options,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		store:     store,
		catalog:   catalog,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
		tracer:    tracing.Tracer("github.com/utafrali/storefront/internal/service"),
	}
}

// GetCart returns the stored cart, or an empty one if none exists.
func (s *CartService) GetCart(ctx context.Context, cartID string) (domain.CartState, error) {
	ctx, span := s.start(ctx, "GetCart", cartID)
	defer span.End()

	eng, err := s.open(ctx, cartID)
	if err != nil {
		return domain.EmptyCart(), spanError(span, err)
	}
	return eng.State(), nil
}

// AddItem adds a product variant to the cart, merging with an existing line
// for the same product, size and color. The product must exist, be in stock
// and offer the requested size and color, and quantity must be in [1, 10].
func (s *CartService) AddItem(ctx context.Context, cartID string, in AddItemInput) (domain.CartState, error) {
	ctx, span := s.start(ctx, "AddItem", cartID)
	defer span.End()
	span.SetAttributes(attribute.String("product.id", in.ProductID), attribute.Int("quantity", in.Quantity))

	if in.Quantity < engine.MinQuantity || in.Quantity > engine.MaxQuantity {
		return domain.EmptyCart(), spanError(span, apperrors.InvalidInput(
			fmt.Sprintf("quantity must be between %d and %d", engine.MinQuantity, engine.MaxQuantity)))
	}

	product, err := s.catalog.GetByID(ctx, in.ProductID)
	if err != nil {
		return domain.EmptyCart(), spanError(span, fmt.Errorf("get product: %w", err))
	}
	if !product.InStock {
		return domain.EmptyCart(), spanError(span, apperrors.OutOfStock(product.ID))
	}
	if !product.HasSize(in.Size) {
		return domain.EmptyCart(), spanError(span, apperrors.InvalidInput(
			fmt.Sprintf("size %q is not available for product %s", in.Size, product.ID)))
	}
	if !product.HasColor(in.Color) {
		return domain.EmptyCart(), spanError(span, apperrors.InvalidInput(
			fmt.Sprintf("color %q is not available for product %s", in.Color, product.ID)))
	}

	eng, err := s.open(ctx, cartID)
	if err != nil {
		return domain.EmptyCart(), spanError(span, err)
	}
	state, err := eng.Add(ctx, *product, in.Quantity, in.Size, in.Color)
	if errors.Is(err, engine.ErrQuantityOutOfBounds) {
		return state, apperrors.InvalidInput(
			fmt.Sprintf("a cart line holds at most %d units", engine.MaxQuantity))
	}
	if err != nil {
		return state, spanError(span, err)
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("cart_id", cartID),
		slog.String("product_id", product.ID),
		slog.String("size", in.Size),
		slog.String("color", in.Color),
		slog.Int("quantity", in.Quantity),
	)
	return state, nil
}

// UpdateItemQuantity sets the quantity of every line of the product.
// Quantities below 1 are ignored and the current cart is returned; quantities
// above 10 are lowered to 10.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID, productID string, quantity int) (domain.CartState, error) {
	ctx, span := s.start(ctx, "UpdateItemQuantity", cartID)
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID), attribute.Int("quantity", quantity))

	eng, err := s.open(ctx, cartID)
	if err != nil {
		return domain.EmptyCart(), spanError(span, err)
	}
	if quantity < engine.MinQuantity {
		return eng.State(), nil
	}

	state, err := eng.UpdateQuantity(ctx, productID, min(quantity, engine.MaxQuantity))
	if err != nil {
		return state, spanError(span, err)
	}
	return state, nil
}

// RemoveItem drops every line of the product. Removing a product that is not
// in the cart is not an error.
func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) (domain.CartState, error) {
	ctx, span := s.start(ctx, "RemoveItem", cartID)
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID))

	eng, err := s.open(ctx, cartID)
	if err != nil {
		return domain.EmptyCart(), spanError(span, err)
	}
	state, err := eng.Remove(ctx, productID)
	if err != nil {
		return state, spanError(span, err)
	}
	return state, nil
}

// ClearCart empties the cart and deletes its stored payload.
func (s *CartService) ClearCart(ctx context.Context, cartID string) (domain.CartState, error) {
	ctx, span := s.start(ctx, "ClearCart", cartID)
	defer span.End()

	eng, err := s.open(ctx, cartID)
	if err != nil {
		return domain.EmptyCart(), spanError(span, err)
	}
	state, err := eng.Clear(ctx)
	if err != nil {
		return state, spanError(span, err)
	}
	if err := s.store.Delete(ctx, cartID); err != nil {
		return state, spanError(span, fmt.Errorf("delete cart: %w", err))
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("cart_id", cartID))
	return state, nil
}

// open builds an engine bound to cartID, loads the stored cart and attaches
// the change observer.
func (s *CartService) open(ctx context.Context, cartID string) (*engine.Engine, error) {
	if cartID == "" {
		return nil, apperrors.InvalidInput("cart id is required")
	}

	eng := engine.New(repository.BindStore(s.store, cartID), s.opts, s.logger)
	if _, err := eng.Load(ctx); err != nil {
		return nil, err
	}
	eng.Subscribe(s.observe(cartID))
	return eng, nil
}

// observe records metrics for committed changes and publishes them. Publish
// failures are logged and never fail the operation.
func (s *CartService) observe(cartID string) engine.Listener {
	return func(ctx context.Context, change engine.Change) {
		cartOperations.WithLabelValues(string(change.Op)).Inc()
		cartValue.Observe(change.State.Total.InexactFloat64())

		var err error
		if change.Op == engine.OpClear {
			err = s.publisher.PublishCartCleared(ctx, cartID)
		} else {
			err = s.publisher.PublishCartUpdated(ctx, cartID, change.State)
		}
		if err != nil {
			s.logger.WarnContext(ctx, "failed to publish cart event",
				slog.String("cart_id", cartID),
				slog.String("op", string(change.Op)),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *CartService) start(ctx context.Context, op, cartID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "CartService."+op, trace.WithAttributes(attribute.String("cart.id", cartID)))
}

func spanError(span trace.Span, err error) error {
	if apperrors.HTTPStatus(err) >= 500 {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
