// Package engine owns a single cart's state. Every mutation derives a new
// domain.CartState from the previous one, persists the resulting items through
// an injected Store and then notifies listeners.
//
// An Engine is not safe for concurrent use. Callers own one engine per cart
// and drive it from a single goroutine; concurrent writers sharing a Store get
// last-writer-wins semantics.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Quantity bounds applied when Options.EnforceQuantityBounds is set.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// ErrQuantityOutOfBounds is returned in strict mode for quantities outside
// [MinQuantity, MaxQuantity].
var ErrQuantityOutOfBounds = errors.New("quantity out of bounds")

// Op names the mutation that produced a Change.
type Op string

const (
	OpAdd            Op = "add"
	OpRemove         Op = "remove"
	OpUpdateQuantity Op = "update_quantity"
	OpClear          Op = "clear"
	OpRestore        Op = "restore"
)

// Change is delivered to listeners after a mutation has been persisted.
type Change struct {
	Op    Op
	State domain.CartState
}

// Listener observes committed changes.
type Listener func(ctx context.Context, change Change)

// Store persists the serialized cart items. Load returns a nil payload and a
// nil error when nothing has been stored yet.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
}

// Options tunes engine validation.
type Options struct {
	// EnforceQuantityBounds rejects quantities outside [1, 10]. The default
	// accepts any quantity and leaves range checks to the caller.
	EnforceQuantityBounds bool
}

// Engine is the single source of truth for one cart.
type Engine struct {
	state     domain.CartState
	store     Store
	opts      Options
	logger    *slog.Logger
	listeners []subscription
	nextID    int
}

type subscription struct {
	id int
	fn Listener
}

// New creates an engine holding an empty cart.
func New(store Store, opts Options, logger *slog.Logger) *Engine {
	return &Engine{
		state:  domain.EmptyCart(),
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// State returns a snapshot of the current cart.
func (e *Engine) State() domain.CartState {
	return e.state.Clone()
}

// Subscribe registers a listener and returns a function that removes it.
// Listeners are notified in registration order.
func (e *Engine) Subscribe(l Listener) (unsubscribe func()) {
	id := e.nextID
	e.nextID++
	e.listeners = append(e.listeners, subscription{id: id, fn: l})
	return func() {
		e.listeners = slices.DeleteFunc(e.listeners, func(s subscription) bool { return s.id == id })
	}
}

// Load restores the cart from the store. An absent or malformed payload leaves
// the cart empty; only store failures are returned. Load does not write back
// and does not notify listeners.
func (e *Engine) Load(ctx context.Context) (domain.CartState, error) {
	payload, err := e.store.Load(ctx)
	if err != nil {
		return e.State(), fmt.Errorf("load cart: %w", err)
	}

	if payload == nil {
		e.state = domain.EmptyCart()
		return e.State(), nil
	}

	items, err := domain.DecodeItems(payload)
	if err != nil {
		e.logger.WarnContext(ctx, "discarding malformed cart payload",
			slog.String("error", err.Error()),
		)
		items = nil
	}

	e.state = domain.Restore(e.sanitize(items))
	return e.State(), nil
}

// Add merges quantity into the (product, size, color) line or appends a new one.
func (e *Engine) Add(ctx context.Context, product domain.Product, quantity int, size, color string) (domain.CartState, error) {
	if e.opts.EnforceQuantityBounds {
		if err := checkBounds(quantity); err != nil {
			return e.State(), err
		}
		key := domain.ItemKey{ProductID: product.ID, Size: size, Color: color}
		if i := e.state.FindItemIndex(key); i >= 0 {
			if err := checkBounds(e.state.Items[i].Quantity + quantity); err != nil {
				return e.State(), err
			}
		}
	}

	return e.commit(ctx, OpAdd, domain.Add(e.state, product, quantity, size, color))
}

// Remove drops every line of the product. Unknown products are a no-op.
func (e *Engine) Remove(ctx context.Context, productID string) (domain.CartState, error) {
	return e.commit(ctx, OpRemove, domain.Remove(e.state, productID))
}

// UpdateQuantity sets quantity on every line of the product.
func (e *Engine) UpdateQuantity(ctx context.Context, productID string, quantity int) (domain.CartState, error) {
	if e.opts.EnforceQuantityBounds {
		if err := checkBounds(quantity); err != nil {
			return e.State(), err
		}
	}
	return e.commit(ctx, OpUpdateQuantity, domain.UpdateQuantity(e.state, productID, quantity))
}

// Clear empties the cart. Calling it on an empty cart is harmless.
func (e *Engine) Clear(ctx context.Context) (domain.CartState, error) {
	return e.commit(ctx, OpClear, domain.Clear(e.state))
}

// Restore replaces the items wholesale, e.g. with a payload read by the caller.
func (e *Engine) Restore(ctx context.Context, items []domain.LineItem) (domain.CartState, error) {
	return e.commit(ctx, OpRestore, domain.Restore(e.sanitize(items)))
}

// RestorePayload decodes a serialized item list and restores it. A payload
// that is not a JSON array of line items restores the empty cart.
func (e *Engine) RestorePayload(ctx context.Context, payload []byte) (domain.CartState, error) {
	items, err := domain.DecodeItems(payload)
	if err != nil {
		e.logger.WarnContext(ctx, "restoring empty cart from malformed payload",
			slog.String("error", err.Error()),
		)
		items = nil
	}
	return e.Restore(ctx, items)
}

// commit persists next, swaps it in and notifies listeners. A failed save
// keeps the previous state.
func (e *Engine) commit(ctx context.Context, op Op, next domain.CartState) (domain.CartState, error) {
	payload, err := domain.EncodeItems(next.Items)
	if err != nil {
		return e.State(), err
	}
	if err := e.store.Save(ctx, payload); err != nil {
		return e.State(), fmt.Errorf("save cart: %w", err)
	}

	e.state = next

	for _, s := range slices.Clone(e.listeners) {
		s.fn(ctx, Change{Op: op, State: e.State()})
	}

	return e.State(), nil
}

// sanitize applies strict-mode rules to externally supplied items: lines with
// quantity below the minimum are dropped and oversized lines are clamped.
func (e *Engine) sanitize(items []domain.LineItem) []domain.LineItem {
	if !e.opts.EnforceQuantityBounds {
		return items
	}
	out := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < MinQuantity {
			continue
		}
		item.Quantity = min(item.Quantity, MaxQuantity)
		out = append(out, item)
	}
	return out
}

func checkBounds(quantity int) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		appErr := apperrors.InvalidInput(fmt.Sprintf("quantity must be between %d and %d", MinQuantity, MaxQuantity))
		appErr.Err = fmt.Errorf("%w: %w", ErrQuantityOutOfBounds, apperrors.ErrInvalidInput)
		return appErr
	}
	return nil
}
