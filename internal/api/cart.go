package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/saltshine/storefront/internal/cart"
)

// addItemRequest is the POST /api/cart/items body.
type addItemRequest struct {
	ProductID int64           `json:"product_id"`
	Handle    string          `json:"handle"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	VariantID int64           `json:"variant_id"`
}

// updateItemRequest is the PATCH /api/cart/items/{id} body.
type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// handleGetCart serves GET /api/cart.
func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	items, err := s.carts.Load()
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeCart(w, items)
}

// handleAddItem serves POST /api/cart/items. Adding a product already in the
// cart increments its quantity.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID <= 0 && req.Handle == "" && req.Title == "" {
		writeError(w, http.StatusBadRequest, "item needs a product id, handle, or title")
		return
	}

	items, err := s.carts.Load()
	if err != nil {
		internalError(w, r, err)
		return
	}

	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	merged := false
	for i := range items {
		if items[i].ProductID == req.ProductID && req.ProductID > 0 {
			items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, cart.LineItem{
			ProductID: req.ProductID,
			Handle:    req.Handle,
			Title:     req.Title,
			Image:     req.Image,
			Price:     req.Price,
			Quantity:  qty,
			VariantID: req.VariantID,
		})
	}

	items = cart.SanitizeItems(items)
	if err := s.carts.Save(items); err != nil {
		internalError(w, r, err)
		return
	}
	writeCart(w, items)
}

// handleUpdateItem serves PATCH /api/cart/items/{id}. A quantity below one
// removes the item.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathProductID(w, r)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := s.carts.Load()
	if err != nil {
		internalError(w, r, err)
		return
	}

	found := false
	out := items[:0]
	for _, li := range items {
		if li.ProductID == productID {
			found = true
			if req.Quantity < 1 {
				continue
			}
			li.Quantity = req.Quantity
		}
		out = append(out, li)
	}
	if !found {
		writeError(w, http.StatusNotFound, "item not in cart")
		return
	}

	if err := s.carts.Save(out); err != nil {
		internalError(w, r, err)
		return
	}
	writeCart(w, out)
}

// handleRemoveItem serves DELETE /api/cart/items/{id}.
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathProductID(w, r)
	if !ok {
		return
	}

	items, err := s.carts.Load()
	if err != nil {
		internalError(w, r, err)
		return
	}

	found := false
	out := items[:0]
	for _, li := range items {
		if li.ProductID == productID {
			found = true
			continue
		}
		out = append(out, li)
	}
	if !found {
		writeError(w, http.StatusNotFound, "item not in cart")
		return
	}

	if err := s.carts.Save(out); err != nil {
		internalError(w, r, err)
		return
	}
	writeCart(w, out)
}

// handleRemoveUnresolved serves DELETE /api/cart/unresolved: reconciles the
// cart against the current catalog and drops every item that cannot be
// resolved to an authentic variant.
func (s *Server) handleRemoveUnresolved(w http.ResponseWriter, r *http.Request) {
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
	patched := cart.ApplyResolutions(items, resolutions)
	out := patched[:0]
	for i, li := range patched {
		if !resolutions[i].Resolved() {
			continue
		}
		out = append(out, li)
	}

	if err := s.carts.Save(out); err != nil {
		internalError(w, r, err)
		return
	}
	writeCart(w, out)
}

func pathProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}

func writeCart(w http.ResponseWriter, items []cart.LineItem) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, li := range items {
						encodeLineItem(e, li)
					}
				})
			})
			e.Field("count", func(e *jx.Encoder) { e.Int(cart.Count(items)) })
			e.Field("subtotal", func(e *jx.Encoder) { e.Str(cart.Subtotal(items).StringFixed(2)) })
		})
	})
}

func encodeLineItem(e *jx.Encoder, li cart.LineItem) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("product_id", func(e *jx.Encoder) { e.Int64(li.ProductID) })
		e.Field("handle", func(e *jx.Encoder) { e.Str(li.Handle) })
		e.Field("title", func(e *jx.Encoder) { e.Str(li.Title) })
		if li.Image != "" {
			e.Field("image", func(e *jx.Encoder) { e.Str(li.Image) })
		}
		e.Field("price", func(e *jx.Encoder) { e.Str(li.Price.StringFixed(2)) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(li.Quantity) })
		e.Field("variant_id", func(e *jx.Encoder) { e.Int64(li.VariantID) })
		e.Field("checkout_ready", func(e *jx.Encoder) { e.Bool(li.CheckoutReady()) })
	})
}
