package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/saltshine/storefront/internal/catalog"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSanitizeItems(t *testing.T) {
	tests := []struct {
		name string
		in   []LineItem
		want []LineItem
	}{
		{
			name: "empty input",
			in:   nil,
			want: []LineItem{},
		},
		{
			name: "unidentifiable entry dropped",
			in:   []LineItem{{Quantity: 2, Price: dec("9.99")}},
			want: []LineItem{},
		},
		{
			name: "quantity floored to one",
			in:   []LineItem{{ProductID: 1, Title: "Mat", Quantity: 0}},
			want: []LineItem{{ProductID: 1, Title: "Mat", Quantity: 1}},
		},
		{
			name: "negative variant id cleared",
			in:   []LineItem{{ProductID: 1, Title: "Mat", Quantity: 1, VariantID: -5}},
			want: []LineItem{{ProductID: 1, Title: "Mat", Quantity: 1, VariantID: 0}},
		},
		{
			name: "negative price cleared",
			in:   []LineItem{{ProductID: 1, Title: "Mat", Quantity: 1, Price: dec("-3")}},
			want: []LineItem{{ProductID: 1, Title: "Mat", Quantity: 1, Price: decimal.Zero}},
		},
		{
			name: "handle alone identifies",
			in:   []LineItem{{Handle: "sink-mat", Quantity: 1}},
			want: []LineItem{{Handle: "sink-mat", Quantity: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeItems(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeItems_Idempotent(t *testing.T) {
	in := []LineItem{
		{ProductID: 1, Title: "Mat", Quantity: 0, VariantID: -1, Price: dec("-2")},
		{ProductID: 2, Title: "Shovel", Quantity: 3, Price: dec("19.99")},
		{Quantity: 5},
	}
	once := SanitizeItems(in)
	twice := SanitizeItems(once)
	assert.Equal(t, once, twice)
}

func TestSubtotal(t *testing.T) {
	items := []LineItem{
		{Price: dec("19.99"), Quantity: 2},
		{Price: dec("5.00"), Quantity: 1},
	}
	assert.True(t, dec("44.98").Equal(Subtotal(items)))
	assert.True(t, Subtotal(nil).IsZero())
}

func TestCount(t *testing.T) {
	items := []LineItem{{Quantity: 2}, {Quantity: 3}}
	assert.Equal(t, 5, Count(items))
	assert.Equal(t, 0, Count(nil))
}

func TestLineItem_CheckoutReady(t *testing.T) {
	assert.True(t, LineItem{VariantID: catalog.MinAuthenticVariantID}.CheckoutReady())
	assert.False(t, LineItem{VariantID: catalog.MinAuthenticVariantID - 1}.CheckoutReady())
	assert.False(t, LineItem{VariantID: 0}.CheckoutReady())
}
