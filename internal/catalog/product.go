// Package catalog defines the storefront catalog data model and the text
// normalization used by search and cart reconciliation.
package catalog

import (
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// MinAuthenticVariantID is the smallest variant identifier issued by the
// commerce platform. Anything below it is a locally synthesized placeholder
// and must not be sent to checkout.
const MinAuthenticVariantID int64 = 10_000_000_000_000

// maxCompareAtMultiplier caps how far a compare-at price may exceed the
// current price before it is treated as a vendor data-entry error.
var maxCompareAtMultiplier = decimal.NewFromInt(12)

// Product is a catalog item. Handle is the canonical lookup key; Title is
// not guaranteed unique.
type Product struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Handle      string     `json:"handle"`
	BodyHTML    string     `json:"body_html"`
	Vendor      string     `json:"vendor"`
	ProductType string     `json:"product_type"`
	Tags        TagList    `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	PublishedAt *time.Time `json:"published_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Variants    []Variant  `json:"variants"`
	Images      []Image    `json:"images"`
	Image       *Image     `json:"image"`
}

// Variant is a purchasable option of a product.
type Variant struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"product_id"`
	Title          string          `json:"title"`
	Price          decimal.Decimal `json:"price"`
	CompareAtPrice decimal.Decimal `json:"compare_at_price"`
	Available      bool            `json:"available"`
	SKU            string          `json:"sku"`
}

// Image holds a product image URL and its position in the gallery.
type Image struct {
	ID       int64  `json:"id"`
	Src      string `json:"src"`
	Position int    `json:"position"`
	Alt      string `json:"alt"`
}

// Collection groups products by convention (type/tag/title text matching),
// not by a hard foreign key.
type Collection struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Handle        string `json:"handle"`
	Description   string `json:"description"`
	Image         *Image `json:"image"`
	ProductsCount int    `json:"products_count"`
}

// Payload is the uniform dataset envelope produced by every pipeline tier.
type Payload struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Source      string       `json:"source"`
	Total       int          `json:"total"`
	Products    []Product    `json:"products,omitempty"`
	Collections []Collection `json:"collections,omitempty"`
}

// TagList accepts the platform's two tag encodings: a JSON array of strings
// or a single comma-joined string.
type TagList []string

// UnmarshalJSON decodes either representation. Unknown shapes decode to an
// empty list rather than failing the whole payload.
func (t *TagList) UnmarshalJSON(data []byte) error {
	d := jx.DecodeBytes(data)
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return err
		}
		*t = splitTags(s)
		return nil
	case jx.Array:
		var tags []string
		if err := d.Arr(func(d *jx.Decoder) error {
			s, err := d.Str()
			if err != nil {
				return err
			}
			tags = append(tags, s)
			return nil
		}); err != nil {
			return err
		}
		*t = tags
		return nil
	default:
		*t = nil
		return d.Skip()
	}
}

// Authentic reports whether the variant identifier was issued by the live
// platform and is safe to use in a checkout URL.
func (v Variant) Authentic() bool {
	return v.ID >= MinAuthenticVariantID
}

// Discount returns the compare-at discount amount, or zero when the
// compare-at price is absent or fails the plausibility guard.
func (v Variant) Discount() decimal.Decimal {
	if !v.CompareAtPrice.IsPositive() {
		return decimal.Zero
	}
	if !v.CompareAtPrice.GreaterThan(v.Price) {
		return decimal.Zero
	}
	if v.CompareAtPrice.GreaterThan(v.Price.Mul(maxCompareAtMultiplier)) {
		return decimal.Zero
	}
	return v.CompareAtPrice.Sub(v.Price)
}

// PriceRange returns the lowest and highest variant prices. Both are zero
// for a product without variants.
func (p Product) PriceRange() (min, max decimal.Decimal) {
	if len(p.Variants) == 0 {
		return decimal.Zero, decimal.Zero
	}
	min, max = p.Variants[0].Price, p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		if v.Price.LessThan(min) {
			min = v.Price
		}
		if v.Price.GreaterThan(max) {
			max = v.Price
		}
	}
	return min, max
}

// Available reports whether any variant is in stock.
func (p Product) Available() bool {
	for _, v := range p.Variants {
		if v.Available {
			return true
		}
	}
	return false
}

// PreferredVariant returns the variant a checkout should target: the first
// available variant with an authentic identifier, else the first authentic
// variant, else nil.
func (p Product) PreferredVariant() *Variant {
	var fallback *Variant
	for i := range p.Variants {
		v := &p.Variants[i]
		if !v.Authentic() {
			continue
		}
		if v.Available {
			return v
		}
		if fallback == nil {
			fallback = v
		}
	}
	return fallback
}
