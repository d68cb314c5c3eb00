package api

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/saltshine/storefront/internal/catalog"
	"github.com/saltshine/storefront/internal/search"
)

// handleListProducts serves GET /api/products with optional q, collection,
// and type query parameters.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ds, ix, err := s.dataset(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	q := r.URL.Query()
	products := ix.Filter(search.Filter{
		Query:       q.Get("q"),
		Collection:  q.Get("collection"),
		ProductType: q.Get("type"),
		Collections: ds.Collections.Collections,
	})

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("source", func(e *jx.Encoder) { e.Str(ds.Products.Source) })
			e.Field("total", func(e *jx.Encoder) { e.Int(len(products)) })
			e.Field("products", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, p := range products {
						encodeProduct(e, p)
					}
				})
			})
		})
	})
}

// handleProductTypes serves GET /api/product-types.
func (s *Server) handleProductTypes(w http.ResponseWriter, r *http.Request) {
	ds, _, err := s.dataset(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	types := search.UniqueProductTypes(ds.Products.Products)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("types", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, t := range types {
						e.Str(t)
					}
				})
			})
		})
	})
}

// handleListCollections serves GET /api/collections.
func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	ds, _, err := s.dataset(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("source", func(e *jx.Encoder) { e.Str(ds.Collections.Source) })
			e.Field("collections", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, c := range ds.Collections.Collections {
						encodeCollection(e, c)
					}
				})
			})
		})
	})
}

func encodeProduct(e *jx.Encoder, p catalog.Product) {
	minPrice, maxPrice := p.PriceRange()
	v := p.PreferredVariant()

	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
		e.Field("handle", func(e *jx.Encoder) { e.Str(p.Handle) })
		e.Field("vendor", func(e *jx.Encoder) { e.Str(p.Vendor) })
		e.Field("product_type", func(e *jx.Encoder) { e.Str(p.ProductType) })
		e.Field("tags", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, t := range p.Tags {
					e.Str(t)
				}
			})
		})
		e.Field("available", func(e *jx.Encoder) { e.Bool(p.Available()) })
		e.Field("price_min", func(e *jx.Encoder) { e.Str(minPrice.StringFixed(2)) })
		e.Field("price_max", func(e *jx.Encoder) { e.Str(maxPrice.StringFixed(2)) })
		if v != nil {
			e.Field("variant_id", func(e *jx.Encoder) { e.Int64(v.ID) })
			e.Field("price", func(e *jx.Encoder) { e.Str(v.Price.StringFixed(2)) })
			if d := v.Discount(); d.IsPositive() {
				e.Field("discount", func(e *jx.Encoder) { e.Str(d.StringFixed(2)) })
				e.Field("compare_at_price", func(e *jx.Encoder) { e.Str(v.CompareAtPrice.StringFixed(2)) })
			}
		}
		if img := productImage(p); img != "" {
			e.Field("image", func(e *jx.Encoder) { e.Str(img) })
		}
	})
}

func encodeCollection(e *jx.Encoder, c catalog.Collection) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(c.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(c.Title) })
		e.Field("handle", func(e *jx.Encoder) { e.Str(c.Handle) })
		if c.Description != "" {
			e.Field("description", func(e *jx.Encoder) { e.Str(c.Description) })
		}
		if c.Image != nil && c.Image.Src != "" {
			e.Field("image", func(e *jx.Encoder) { e.Str(c.Image.Src) })
		}
	})
}

func productImage(p catalog.Product) string {
	if p.Image != nil && p.Image.Src != "" {
		return p.Image.Src
	}
	if len(p.Images) > 0 {
		return p.Images[0].Src
	}
	return ""
}
