package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/engine"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CartStore persists serialized cart payloads keyed by cart ID.
type CartStore interface {
	// Load returns the stored payload, or apperrors.ErrNotFound if none exists.
	Load(ctx context.Context, cartID string) ([]byte, error)

	// Save stores the payload, overwriting any previous payload for the cart.
	Save(ctx context.Context, cartID string, payload []byte) error

	// Delete removes the stored payload. Deleting a missing cart is not an error.
	Delete(ctx context.Context, cartID string) error
}

// ProductFilter holds optional catalog query parameters.
type ProductFilter struct {
	Category *string
	Gender   *string
	Search   *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Featured *bool
}

// ProductCatalog provides read access to products.
type ProductCatalog interface {
	// GetByID returns the product or an error wrapping apperrors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the filter.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
}

// boundStore adapts a CartStore to the single-cart engine.Store contract.
type boundStore struct {
	store  CartStore
	cartID string
}

// BindStore binds store to one cart so it can back an engine.Engine. A missing
// cart is reported to the engine as an absent payload.
func BindStore(store CartStore, cartID string) engine.Store {
	return &boundStore{store: store, cartID: cartID}
}

func (b *boundStore) Load(ctx context.Context) ([]byte, error) {
	payload, err := b.store.Load(ctx, b.cartID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return payload, nil
}

func (b *boundStore) Save(ctx context.Context, payload []byte) error {
	return b.store.Save(ctx, b.cartID, payload)
}

// Matches reports whether p satisfies every set field of the filter. Search is
// a case-insensitive substring match on the product name.
func (f ProductFilter) Matches(p *domain.Product) bool {
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if f.Gender != nil && p.Gender != *f.Gender {
		return false
	}
	if f.Search != nil && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(*f.Search)) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	return true
}
