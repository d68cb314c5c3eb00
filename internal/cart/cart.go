// Package cart implements the client-local cart: sanitization, durable
// persistence, reconciliation against the live catalog, and checkout URL
// construction.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/saltshine/storefront/internal/catalog"
)

// LineItem is one persisted cart entry. VariantID may be zero (never
// chosen), synthetic (locally generated, below the authenticity threshold),
// or authentic.
type LineItem struct {
	ProductID int64           `json:"product_id"`
	Handle    string          `json:"handle"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	VariantID int64           `json:"variant_id,omitempty"`
}

// CheckoutReady reports whether the stored variant identifier can be sent to
// checkout as-is.
func (li LineItem) CheckoutReady() bool {
	return li.VariantID >= catalog.MinAuthenticVariantID
}

// SanitizeItems drops malformed entries and repairs the rest: quantity is
// clamped to at least 1 and negative variant identifiers are cleared. The
// function is idempotent; sanitizing sanitized input changes nothing.
func SanitizeItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, li := range items {
		if li.ProductID <= 0 && li.Handle == "" && li.Title == "" {
			continue
		}
		if li.Quantity < 1 {
			li.Quantity = 1
		}
		if li.VariantID < 0 {
			li.VariantID = 0
		}
		if li.Price.IsNegative() {
			li.Price = decimal.Zero
		}
		out = append(out, li)
	}
	return out
}

// Subtotal returns the sum of price times quantity across the items.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	return sum.Round(2)
}

// Count returns the total unit count across the items.
func Count(items []LineItem) int {
	n := 0
	for _, li := range items {
		n += li.Quantity
	}
	return n
}
