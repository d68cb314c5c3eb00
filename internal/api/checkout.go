package api

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/saltshine/storefront/internal/cart"
)

// handleCheckout serves POST /api/checkout: reconciles the cart against the
// current catalog, persists any recovered variant identifiers, and returns
// the checkout hand-off. An empty or fully unresolved cart degrades to the
// bare cart URL rather than failing.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	items, err := s.carts.Load()
	if err != nil {
		internalError(w, r, err)
		return
	}
	ds, _, err := s.dataset(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	resolutions := cart.Reconcile(items, ds.Products.Products)
	plan := cart.BuildCheckout(resolutions, s.shopBase)
	checkoutPlans.Add(r.Context(), 1, metric.WithAttributes(checkoutOutcome(plan.Direct)))

	// Persist recovered identifiers so the fix survives reloads. A failed
	// save is not fatal to the hand-off.
	patched := cart.ApplyResolutions(items, resolutions)
	if err := s.carts.Save(patched); err != nil {
		zctx.From(r.Context()).Warn("persist reconciled cart", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("url", func(e *jx.Encoder) { e.Str(plan.URL) })
			e.Field("direct", func(e *jx.Encoder) { e.Bool(plan.Direct) })
			e.Field("resolved", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, res := range plan.Resolved {
						encodeResolution(e, res)
					}
				})
			})
			e.Field("unresolved", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, res := range plan.Unresolved {
						encodeResolution(e, res)
					}
				})
			})
		})
	})
}

func encodeResolution(e *jx.Encoder, res cart.Resolution) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("product_id", func(e *jx.Encoder) { e.Int64(res.Item.ProductID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(res.Item.Title) })
		e.Field("method", func(e *jx.Encoder) { e.Str(string(res.Method)) })
		if res.Resolved() {
			e.Field("variant_id", func(e *jx.Encoder) { e.Int64(res.VariantID) })
		}
	})
}
