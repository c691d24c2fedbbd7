package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Shipping policy. Orders strictly above the threshold ship free; any other
// non-empty cart pays the flat rate.
var (
	FreeShippingThreshold = decimal.NewFromInt(100)
	FlatShippingRate      = decimal.NewFromInt(10)
)

// LineItem is one cart entry: a product variant and a quantity.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size"`
	Color    string  `json:"color"`
}

// ItemKey identifies a line item for merge-on-add purposes.
type ItemKey struct {
	ProductID string
	Size      string
	Color     string
}

// Key returns the identity key of the line item.
func (li LineItem) Key() ItemKey {
	return ItemKey{ProductID: li.Product.ID, Size: li.Size, Color: li.Color}
}

// LineTotal returns price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// CartState is an immutable snapshot of a cart and its derived totals.
type CartState struct {
	Items    []LineItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Totals holds the monetary values derived from a list of line items.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// EmptyCart returns a cart with no items and zero totals.
func EmptyCart() CartState {
	return CartState{
		Items:    []LineItem{},
		Subtotal: decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}
}

// NewCartState builds a state from items, always deriving totals from them.
// The caller must not retain items after the call.
func NewCartState(items []LineItem) CartState {
	if items == nil {
		items = []LineItem{}
	}
	t := CalculateTotals(items)
	return CartState{
		Items:    items,
		Subtotal: t.Subtotal,
		Shipping: t.Shipping,
		Total:    t.Total,
	}
}

// CalculateTotals recomputes subtotal, shipping and total from scratch.
func CalculateTotals(items []LineItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	shipping := ShippingFor(subtotal)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}

// ShippingFor returns the shipping charge for the given subtotal. A
// non-positive subtotal (empty cart, or garbage quantities) ships free.
func ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingRate
}

// ItemCount returns the sum of quantities across all items.
func (s CartState) ItemCount() int {
	var count int
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no items.
func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}

// Clone returns a copy of the state that shares no item storage with s.
func (s CartState) Clone() CartState {
	return CartState{
		Items:    cloneItems(s.Items),
		Subtotal: s.Subtotal,
		Shipping: s.Shipping,
		Total:    s.Total,
	}
}

// FindItemIndex returns the index of the item with the given key, or -1.
func (s CartState) FindItemIndex(key ItemKey) int {
	return slices.IndexFunc(s.Items, func(li LineItem) bool { return li.Key() == key })
}

// Add merges quantity into the item matching (product.ID, size, color) or
// appends a new item. Quantities are not validated here.
func Add(s CartState, product Product, quantity int, size, color string) CartState {
	items := cloneItems(s.Items)
	key := ItemKey{ProductID: product.ID, Size: size, Color: color}

	if i := s.FindItemIndex(key); i >= 0 {
		items[i].Quantity += quantity
	} else {
		items = append(items, LineItem{
			Product:  cloneProduct(product),
			Quantity: quantity,
			Size:     size,
			Color:    color,
		})
	}

	return NewCartState(items)
}

// Remove drops every item of the product regardless of size and color.
func Remove(s CartState, productID string) CartState {
	items := make([]LineItem, 0, len(s.Items))
	for _, item := range s.Items {
		if item.Product.ID != productID {
			items = append(items, item)
		}
	}
	return NewCartState(items)
}

// UpdateQuantity sets quantity verbatim on every item of the product.
func UpdateQuantity(s CartState, productID string, quantity int) CartState {
	items := cloneItems(s.Items)
	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity = quantity
		}
	}
	return NewCartState(items)
}

// Clear returns the empty cart.
func Clear(CartState) CartState {
	return EmptyCart()
}

// Restore replaces the items wholesale and recomputes totals.
func Restore(items []LineItem) CartState {
	return NewCartState(cloneItems(items))
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		item.Product = cloneProduct(item.Product)
		out[i] = item
	}
	return out
}

func cloneProduct(p Product) Product {
	p.Images = slices.Clone(p.Images)
	p.Sizes = slices.Clone(p.Sizes)
	p.Colors = slices.Clone(p.Colors)
	return p
}
