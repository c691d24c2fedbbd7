package memory

import (
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/slug"
)

// SeedProducts returns the storefront's starter catalog. IDs are slugs of the
// product names so they are stable across restarts.
func SeedProducts() []domain.Product {
	products := []domain.Product{
		{
			Name:        "Premium Cotton T-Shirt",
			Description: "A comfortable, everyday t-shirt made from 100% premium cotton. Features a relaxed fit and durability that will last through many washes.",
			Price:       decimal.RequireFromString("29.99"),
			Images: []string{
				"https://images.pexels.com/photos/5384423/pexels-photo-5384423.jpeg",
				"https://images.pexels.com/photos/6311475/pexels-photo-6311475.jpeg",
			},
			Category:   "T-Shirts",
			Gender:     domain.GenderUnisex,
			Sizes:      []string{"XS", "S", "M", "L", "XL", "XXL"},
			Colors:     []string{"Black", "White", "Navy", "Gray"},
			InStock:    true,
			Featured:   true,
			Rating:     4.5,
			NumReviews: 12,
		},
		{
			Name:        "Slim Fit Jeans",
			Description: "Modern slim fit jeans with a touch of stretch for comfort. Perfect for casual wear or dressing up for a night out.",
			Price:       decimal.RequireFromString("59.99"),
			Images: []string{
				"https://images.pexels.com/photos/1598507/pexels-photo-1598507.jpeg",
				"https://images.pexels.com/photos/1082529/pexels-photo-1082529.jpeg",
			},
			Category:   "Jeans",
			Gender:     domain.GenderMen,
			Sizes:      []string{"30x30", "32x30", "34x30", "36x30", "38x30"},
			Colors:     []string{"Blue", "Black", "Gray"},
			InStock:    true,
			Featured:   true,
			Rating:     4.0,
			NumReviews: 8,
		},
		{
			Name:        "High-Waisted Dress Pants",
			Description: "Elegant high-waisted dress pants for a professional look. Made with a comfortable stretch fabric that moves with you.",
			Price:       decimal.RequireFromString("79.99"),
			Images: []string{
				"https://images.pexels.com/photos/6765514/pexels-photo-6765514.jpeg",
				"https://images.pexels.com/photos/6765515/pexels-photo-6765515.jpeg",
			},
			Category:   "Pants",
			Gender:     domain.GenderWomen,
			Sizes:      []string{"XS", "S", "M", "L", "XL"},
			Colors:     []string{"Black", "Navy", "Beige"},
			InStock:    true,
			Rating:     4.7,
			NumReviews: 10,
		},
		{
			Name:        "Casual Button-Down Shirt",
			Description: "A versatile button-down shirt perfect for work or casual outings. Made from lightweight, breathable fabric for all-day comfort.",
			Price:       decimal.RequireFromString("49.99"),
			Images: []string{
				"https://images.pexels.com/photos/297933/pexels-photo-297933.jpeg",
				"https://images.pexels.com/photos/6626903/pexels-photo-6626903.jpeg",
			},
			Category:   "Shirts",
			Gender:     domain.GenderMen,
			Sizes:      []string{"S", "M", "L", "XL", "XXL"},
			Colors:     []string{"White", "Blue", "Black", "Striped"},
			InStock:    true,
			Featured:   true,
			Rating:     4.3,
			NumReviews: 15,
		},
		{
			Name:        "Summer Floral Dress",
			Description: "A light and breezy summer dress with a beautiful floral pattern. Perfect for beach days or casual summer outings.",
			Price:       decimal.RequireFromString("69.99"),
			Images: []string{
				"https://images.pexels.com/photos/7586603/pexels-photo-7586603.jpeg",
				"https://images.pexels.com/photos/6765186/pexels-photo-6765186.jpeg",
			},
			Category:   "Dresses",
			Gender:     domain.GenderWomen,
			Sizes:      []string{"XS", "S", "M", "L", "XL"},
			Colors:     []string{"Floral Blue", "Floral Pink", "Floral White"},
			InStock:    true,
			Featured:   true,
			Rating:     4.8,
			NumReviews: 20,
		},
		{
			Name:        "Athletic Performance Hoodie",
			Description: "A technical performance hoodie designed for workouts and active lifestyles. Features moisture-wicking fabric and a comfortable fit.",
			Price:       decimal.RequireFromString("64.99"),
			Images: []string{
				"https://images.pexels.com/photos/1183266/pexels-photo-1183266.jpeg",
				"https://images.pexels.com/photos/6311600/pexels-photo-6311600.jpeg",
			},
			Category:   "Activewear",
			Gender:     domain.GenderUnisex,
			Sizes:      []string{"S", "M", "L", "XL"},
			Colors:     []string{"Black", "Gray", "Navy", "Red"},
			InStock:    true,
			Rating:     4.6,
			NumReviews: 18,
		},
		{
			Name:        "Classic Wool Sweater",
			Description: "A timeless wool sweater that provides warmth and style. Perfect for layering during colder months.",
			Price:       decimal.RequireFromString("89.99"),
			Images: []string{
				"https://images.pexels.com/photos/6764035/pexels-photo-6764035.jpeg",
				"https://images.pexels.com/photos/6311471/pexels-photo-6311471.jpeg",
			},
			Category:   "Sweaters",
			Gender:     domain.GenderUnisex,
			Sizes:      []string{"S", "M", "L", "XL"},
			Colors:     []string{"Camel", "Navy", "Gray", "Black"},
			InStock:    true,
			Featured:   true,
			Rating:     4.4,
			NumReviews: 14,
		},
		{
			Name:        "Leather Jacket",
			Description: "A classic leather jacket that adds edge to any outfit. Made from high-quality leather with a comfortable lining.",
			Price:       decimal.RequireFromString("199.99"),
			Images: []string{
				"https://images.pexels.com/photos/1040945/pexels-photo-1040945.jpeg",
				"https://images.pexels.com/photos/7691283/pexels-photo-7691283.jpeg",
			},
			Category:   "Jackets",
			Gender:     domain.GenderUnisex,
			Sizes:      []string{"S", "M", "L", "XL"},
			Colors:     []string{"Black", "Brown"},
			InStock:    true,
			Featured:   true,
			Rating:     4.9,
			NumReviews: 25,
		},
	}

	for i := range products {
		products[i].ID = slug.Generate(products[i].Name)
	}
	return products
}
