package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const keyPrefix = "cart:"

// CartStore implements repository.CartStore using Redis.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStore creates a new Redis-backed cart store. Every save refreshes the
// key's TTL, so idle carts expire.
func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{
		client: client,
		ttl:    ttl,
	}
}

// Load retrieves the raw cart payload from Redis.
func (s *CartStore) Load(ctx context.Context, cartID string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+cartID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cart", cartID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	return data, nil
}

// Save writes the cart payload to Redis with the configured TTL.
func (s *CartStore) Save(ctx context.Context, cartID string, payload []byte) error {
	if err := s.client.Set(ctx, keyPrefix+cartID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// Delete removes the cart payload from Redis.
func (s *CartStore) Delete(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, keyPrefix+cartID).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
