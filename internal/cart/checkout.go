package cart

import (
	"strconv"
	"strings"
)

// bypassParams are appended to the line-item checkout URL so the platform
// sends the buyer straight to checkout instead of the themed cart page.
const bypassParams = "skip_shop_pay=true"

// CheckoutPlan is the outcome of reconciling the cart for checkout.
type CheckoutPlan struct {
	// URL is the destination to hand the buyer to.
	URL string
	// Direct is true when URL is a line-item checkout URL; false when the
	// plan degraded to the bare cart landing page.
	Direct bool
	// Resolved holds items with usable variant identifiers.
	Resolved []Resolution
	// Unresolved holds items that block direct checkout and need manual
	// remediation (remove, or search the shop directly).
	Unresolved []Resolution
}

// BuildCheckout constructs the checkout hand-off for the given resolutions.
// Any unresolved item, or a cart with no resolved items at all, degrades the
// plan to the bare cart URL.
//
// The direct URL format is fixed by the platform's cart API:
//
//	{base}/cart/{variantId}:{qty}[,{variantId}:{qty}...]?checkout&skip_shop_pay=true
func BuildCheckout(resolutions []Resolution, shopBase string) CheckoutPlan {
	base := strings.TrimRight(shopBase, "/")
	plan := CheckoutPlan{}
	for _, r := range resolutions {
		if r.Resolved() {
			plan.Resolved = append(plan.Resolved, r)
		} else {
			plan.Unresolved = append(plan.Unresolved, r)
		}
	}

	if len(plan.Unresolved) > 0 || len(plan.Resolved) == 0 {
		plan.URL = base + "/cart"
		return plan
	}

	pairs := make([]string, len(plan.Resolved))
	for i, r := range plan.Resolved {
		qty := r.Item.Quantity
		if qty < 1 {
			qty = 1
		}
		pairs[i] = strconv.FormatInt(r.VariantID, 10) + ":" + strconv.Itoa(qty)
	}
	plan.URL = base + "/cart/" + strings.Join(pairs, ",") + "?checkout&" + bypassParams
	plan.Direct = true
	return plan
}
