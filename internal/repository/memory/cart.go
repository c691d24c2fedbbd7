// Package memory provides in-process implementations of the repository
// contracts, used for local development and tests.
package memory

import (
	"context"
	"sync"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CartStore is a mutex-guarded map of cart payloads.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewCartStore creates an empty in-memory cart store.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string][]byte)}
}

// Load returns a copy of the stored payload.
func (s *CartStore) Load(_ context.Context, cartID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.carts[cartID]
	if !ok {
		return nil, apperrors.NotFound("cart", cartID)
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of payload.
func (s *CartStore) Save(_ context.Context, cartID string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cartID] = append([]byte(nil), payload...)
	return nil
}

// Delete removes the cart if present.
func (s *CartStore) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, cartID)
	return nil
}
