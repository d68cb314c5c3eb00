package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCheckout_DirectURL(t *testing.T) {
	resolutions := []Resolution{
		{Item: LineItem{ProductID: 1, Quantity: 2}, VariantID: authentic + 10, Method: MethodDirect},
		{Item: LineItem{ProductID: 2, Quantity: 1}, VariantID: authentic + 21, Method: MethodHandle},
	}

	plan := BuildCheckout(resolutions, "https://shop.example.com")

	assert.True(t, plan.Direct)
	assert.Equal(t,
		"https://shop.example.com/cart/10000000000010:2,10000000000021:1?checkout&skip_shop_pay=true",
		plan.URL,
	)
	assert.Len(t, plan.Resolved, 2)
	assert.Empty(t, plan.Unresolved)
}

func TestBuildCheckout_TrimsTrailingSlash(t *testing.T) {
	resolutions := []Resolution{
		{Item: LineItem{Quantity: 1}, VariantID: authentic, Method: MethodDirect},
	}
	plan := BuildCheckout(resolutions, "https://shop.example.com/")
	assert.Equal(t,
		"https://shop.example.com/cart/10000000000000:1?checkout&skip_shop_pay=true",
		plan.URL,
	)
}

func TestBuildCheckout_UnresolvedDegradesToCart(t *testing.T) {
	resolutions := []Resolution{
		{Item: LineItem{ProductID: 1, Quantity: 1}, VariantID: authentic + 10, Method: MethodDirect},
		{Item: LineItem{ProductID: 42, Quantity: 1}, Method: MethodUnresolved},
	}

	plan := BuildCheckout(resolutions, "https://shop.example.com")

	assert.False(t, plan.Direct)
	assert.Equal(t, "https://shop.example.com/cart", plan.URL)
	assert.Len(t, plan.Resolved, 1)
	assert.Len(t, plan.Unresolved, 1)
}

func TestBuildCheckout_EmptyCart(t *testing.T) {
	plan := BuildCheckout(nil, "https://shop.example.com")

	assert.False(t, plan.Direct)
	assert.Equal(t, "https://shop.example.com/cart", plan.URL)
	assert.Empty(t, plan.Resolved)
	assert.Empty(t, plan.Unresolved)
}

func TestBuildCheckout_QuantityFlooredToOne(t *testing.T) {
	resolutions := []Resolution{
		{Item: LineItem{Quantity: 0}, VariantID: authentic + 1, Method: MethodDirect},
	}
	plan := BuildCheckout(resolutions, "https://shop.example.com")
	assert.Equal(t,
		"https://shop.example.com/cart/10000000000001:1?checkout&skip_shop_pay=true",
		plan.URL,
	)
}
