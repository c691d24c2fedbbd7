// Package event publishes cart domain events and reacts to order events.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Topics produced and consumed by the cart service.
const (
	TopicCartUpdated  = pkgkafka.TopicPrefix + ".cart.updated"
	TopicCartCleared  = pkgkafka.TopicPrefix + ".cart.cleared"
	TopicOrderCreated = pkgkafka.TopicPrefix + ".order.created"
)

const (
	AggregateTypeCart = "cart"
	SourceCartService = "cart-service"
)

// CartUpdatedData is the payload of a cart.updated event.
type CartUpdatedData struct {
	CartID    string          `json:"cart_id"`
	Items     []CartItemData  `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
}

// CartItemData is one line within a cart.updated payload.
type CartItemData struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// CartClearedData is the payload of a cart.cleared event.
type CartClearedData struct {
	CartID string `json:"cart_id"`
}

// EventPublisher is satisfied by *pkgkafka.Producer.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes cart events.
type Producer struct {
	pub    EventPublisher
	logger *slog.Logger
}

// NewProducer creates a cart event producer.
func NewProducer(pub EventPublisher, logger *slog.Logger) *Producer {
	return &Producer{pub: pub, logger: logger}
}

// PublishCartUpdated publishes the full cart after a mutation.
func (p *Producer) PublishCartUpdated(ctx context.Context, cartID string, state domain.CartState) error {
	items := make([]CartItemData, len(state.Items))
	for i, item := range state.Items {
		items[i] = CartItemData{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Size:      item.Size,
			Color:     item.Color,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		CartID:    cartID,
		Items:     items,
		ItemCount: state.ItemCount(),
		Subtotal:  state.Subtotal,
		Shipping:  state.Shipping,
		Total:     state.Total,
	}
	if err := p.publish(ctx, TopicCartUpdated, cartID, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("cart_id", cartID),
		slog.Int("item_count", data.ItemCount),
	)
	return nil
}

// PublishCartCleared publishes that a cart was emptied.
func (p *Producer) PublishCartCleared(ctx context.Context, cartID string) error {
	return p.publish(ctx, TopicCartCleared, cartID, CartClearedData{CartID: cartID})
}

func (p *Producer) publish(ctx context.Context, topic, cartID string, data any) error {
	ev, err := pkgkafka.NewEvent(topic, cartID, AggregateTypeCart, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	ev.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.pub.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// Discard drops every event. It is used when publishing is disabled.
type Discard struct{}

func (Discard) PublishCartUpdated(context.Context, string, domain.CartState) error { return nil }
func (Discard) PublishCartCleared(context.Context, string) error                   { return nil }
