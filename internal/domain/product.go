package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Gender values used by the catalog.
const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderUnisex = "unisex"
)

// Product is a catalog entry. The cart stores a copy taken at the time of
// addition and never mutates it.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images,omitempty"`
	Category    string          `json:"category,omitempty"`
	Gender      string          `json:"gender,omitempty"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
	InStock     bool            `json:"in_stock"`
	Featured    bool            `json:"featured,omitempty"`
	Rating      float64         `json:"rating,omitempty"`
	NumReviews  int             `json:"num_reviews,omitempty"`
}

// HasSize reports whether size is one of the product's available sizes.
func (p *Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

// HasColor reports whether color is one of the product's available colors.
func (p *Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

// IsValidGender checks whether g is a known gender value.
func IsValidGender(g string) bool {
	switch g {
	case GenderMen, GenderWomen, GenderUnisex:
		return true
	default:
		return false
	}
}
