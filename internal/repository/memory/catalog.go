package memory

import (
	"context"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Catalog is an in-memory product catalog preserving insertion order.
type Catalog struct {
	mu       sync.RWMutex
	order    []string
	products map[string]domain.Product
}

// NewCatalog creates a catalog holding the given products.
func NewCatalog(products ...domain.Product) *Catalog {
	c := &Catalog{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		c.Put(p)
	}
	return c
}

// Put inserts or replaces a product.
func (c *Catalog) Put(p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.products[p.ID]; !ok {
		c.order = append(c.order, p.ID)
	}
	c.products[p.ID] = p
}

// GetByID returns a copy of the product.
func (c *Catalog) GetByID(_ context.Context, id string) (*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	return &p, nil
}

// List returns the products matching filter in insertion order.
func (c *Catalog) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		p := c.products[id]
		if filter.Matches(&p) {
			out = append(out, p)
		}
	}
	return out, nil
}
