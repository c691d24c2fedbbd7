// Package postgres implements the product catalog on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Prices are selected as text so they reach decimal.Decimal without passing
// through a float.
const productColumns = `id, name, description, price::text, images, category, gender, sizes, colors, in_stock, featured, rating::float8, num_reviews`

// Catalog implements repository.ProductCatalog using PostgreSQL.
type Catalog struct {
	db     database.DBTX
	tracer *database.QueryTracer
}

// NewCatalog creates a PostgreSQL-backed product catalog. tracer may be nil.
func NewCatalog(db database.DBTX, tracer *database.QueryTracer) *Catalog {
	return &Catalog{db: db, tracer: tracer}
}

// GetByID retrieves a product by its ID.
func (c *Catalog) GetByID(ctx context.Context, id string) (p *domain.Product, err error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	ctx, end := c.tracer.Trace(ctx, "GetProduct", query)
	defer func() { end(err) }()

	p, err = scanProduct(c.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

// List returns products matching the filter in catalog order.
func (c *Catalog) List(ctx context.Context, filter repository.ProductFilter) (products []domain.Product, err error) {
	var (
		conditions []string
		args       []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.Category != nil {
		add("category = $%d", *filter.Category)
	}
	if filter.Gender != nil {
		add("gender = $%d", *filter.Gender)
	}
	if filter.Search != nil {
		add("name ILIKE $%d", "%"+*filter.Search+"%")
	}
	if filter.MinPrice != nil {
		add("price >= $%d::numeric", filter.MinPrice.String())
	}
	if filter.MaxPrice != nil {
		add("price <= $%d::numeric", filter.MaxPrice.String())
	}
	if filter.Featured != nil {
		add("featured = $%d", *filter.Featured)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}
	query := `SELECT ` + productColumns + ` FROM products` + whereClause + ` ORDER BY created_at, id`

	ctx, end := c.tracer.Trace(ctx, "ListProducts", query)
	defer func() { end(err) }()

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products = make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&price,
		&p.Images,
		&p.Category,
		&p.Gender,
		&p.Sizes,
		&p.Colors,
		&p.InStock,
		&p.Featured,
		&p.Rating,
		&p.NumReviews,
	); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Price = amount
	return &p, nil
}
