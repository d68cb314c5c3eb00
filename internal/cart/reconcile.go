package cart

import (
	"github.com/saltshine/storefront/internal/catalog"
)

// Method records how a line item's checkout identifier was resolved.
type Method string

const (
	// MethodDirect means the stored variant identifier was already authentic.
	MethodDirect Method = "direct"
	// MethodHandle means the identifier was recovered via the product handle.
	MethodHandle Method = "handle"
	// MethodTitle means the identifier was recovered via the normalized title.
	MethodTitle Method = "title"
	// MethodUnresolved means no valid identifier could be found; the item
	// blocks direct checkout.
	MethodUnresolved Method = "unresolved"
)

// Resolution pairs a line item with the variant identifier it should check
// out with, if one was found.
type Resolution struct {
	Item      LineItem
	VariantID int64
	Method    Method
}

// Resolved reports whether the resolution carries a usable identifier.
func (r Resolution) Resolved() bool {
	return r.Method != MethodUnresolved
}

// Reconcile maps each line item onto a currently valid catalog variant
// identifier: items whose stored identifier is already authentic pass
// through unchanged, the rest are recovered by normalized handle, then by
// normalized title, then marked unresolved.
func Reconcile(items []LineItem, products []catalog.Product) []Resolution {
	byHandle := make(map[string]int64, len(products))
	byTitle := make(map[string]int64, len(products))
	for _, p := range products {
		v := p.PreferredVariant()
		if v == nil {
			continue
		}
		if h := catalog.NormalizeHandle(p.Handle); h != "" {
			if _, dup := byHandle[h]; !dup {
				byHandle[h] = v.ID
			}
		}
		if t := catalog.NormalizeTitle(p.Title); t != "" {
			if _, dup := byTitle[t]; !dup {
				byTitle[t] = v.ID
			}
		}
	}

	out := make([]Resolution, len(items))
	for i, li := range items {
		out[i] = resolve(li, byHandle, byTitle)
	}
	return out
}

func resolve(li LineItem, byHandle, byTitle map[string]int64) Resolution {
	if li.CheckoutReady() {
		return Resolution{Item: li, VariantID: li.VariantID, Method: MethodDirect}
	}
	if h := catalog.NormalizeHandle(li.Handle); h != "" {
		if id, ok := byHandle[h]; ok {
			return Resolution{Item: li, VariantID: id, Method: MethodHandle}
		}
	}
	if t := catalog.NormalizeTitle(li.Title); t != "" {
		if id, ok := byTitle[t]; ok {
			return Resolution{Item: li, VariantID: id, Method: MethodTitle}
		}
	}
	return Resolution{Item: li, Method: MethodUnresolved}
}

// ApplyResolutions patches recovered variant identifiers back onto the line
// items so the fix persists across reloads. Resolutions are positional, as
// Reconcile emits them, so items sharing a product identifier (or lacking
// one entirely) each receive their own patch. Quantities and every other
// field are left untouched; unresolved items pass through unchanged.
func ApplyResolutions(items []LineItem, resolutions []Resolution) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	for i, r := range resolutions {
		if i >= len(out) {
			break
		}
		if r.Resolved() && r.Method != MethodDirect && !out[i].CheckoutReady() {
			out[i].VariantID = r.VariantID
		}
	}
	return out
}
