package event

import (
	"context"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// OrderCreatedData is the part of the order.created payload the cart
// service reads.
type OrderCreatedData struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// CartClearer empties a cart.
type CartClearer interface {
	ClearCart(ctx context.Context, cartID string) (domain.CartState, error)
}

// OrderConsumer empties the buyer's cart once their order is placed.
type OrderConsumer struct {
	carts  CartClearer
	logger *slog.Logger
}

// NewOrderConsumer creates an order event handler.
func NewOrderConsumer(carts CartClearer, logger *slog.Logger) *OrderConsumer {
	return &OrderConsumer{carts: carts, logger: logger}
}

// Handle is a pkgkafka.Handler. Unknown event types and payloads without a
// user are skipped; only a failure to clear the cart is returned for retry.
func (c *OrderConsumer) Handle(ctx context.Context, ev *pkgkafka.Event) error {
	if ev.EventType != TopicOrderCreated {
		c.logger.DebugContext(ctx, "ignoring event", slog.String("event_type", ev.EventType))
		return nil
	}

	var data OrderCreatedData
	if err := ev.UnmarshalData(&data); err != nil {
		c.logger.WarnContext(ctx, "skipping malformed order event",
			slog.String("event_id", ev.EventID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if data.UserID == "" {
		c.logger.WarnContext(ctx, "order event has no user", slog.String("order_id", data.OrderID))
		return nil
	}

	ctx = logger.WithCorrelationID(ctx, ev.CorrelationID)
	ctx = logger.WithCartID(ctx, data.UserID)
	if _, err := c.carts.ClearCart(ctx, data.UserID); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "cart cleared after checkout",
		slog.String("order_id", data.OrderID),
		slog.String("cart_id", data.UserID),
	)
	return nil
}
