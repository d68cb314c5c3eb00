// Package api exposes the storefront HTTP surface: product search, catalog
// metadata, cart mutation, and checkout resolution.
package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/saltshine/storefront/internal/cart"
	"github.com/saltshine/storefront/internal/search"
	"github.com/saltshine/storefront/internal/source"
)

// Catalog abstracts the dataset pipeline so handler tests can supply a fixed
// dataset.
type Catalog interface {
	Dataset(ctx context.Context) (*source.Dataset, error)
}

// Config holds non-dependency Server configuration.
type Config struct {
	// ShopBase is the live shop origin used to build checkout URLs.
	ShopBase string
}

// Server routes API requests to the catalog pipeline and the cart store.
type Server struct {
	catalog  Catalog
	carts    *cart.Store
	shopBase string

	// indexMu guards the per-dataset search index. The pipeline caches the
	// dataset, so rebuilds only happen when the dataset actually changes.
	indexMu   sync.Mutex
	indexedDS *source.Dataset
	index     *search.Index
}

// NewServer constructs a Server with the required dependencies.
func NewServer(cfg Config, catalog Catalog, carts *cart.Store) *Server {
	return &Server{
		catalog:  catalog,
		carts:    carts,
		shopBase: cfg.ShopBase,
	}
}

// Routes returns the API route table.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("GET /api/product-types", s.handleProductTypes)
	mux.HandleFunc("GET /api/collections", s.handleListCollections)
	mux.HandleFunc("GET /api/cart", s.handleGetCart)
	mux.HandleFunc("POST /api/cart/items", s.handleAddItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", s.handleRemoveItem)
	mux.HandleFunc("DELETE /api/cart/unresolved", s.handleRemoveUnresolved)
	mux.HandleFunc("POST /api/checkout", s.handleCheckout)
	return mux
}

// dataset loads the current dataset and the search index built over it.
func (s *Server) dataset(ctx context.Context) (*source.Dataset, *search.Index, error) {
	ds, err := s.catalog.Dataset(ctx)
	if err != nil {
		return nil, nil, err
	}

	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	if s.indexedDS != ds {
		s.index = search.NewIndex(ds.Products.Products)
		s.indexedDS = ds
	}
	return ds, s.index, nil
}

// writeJSON encodes body with the given encoder callback and writes it with
// the given status.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes a {code, message} error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
		})
	})
}

// internalError logs err and responds 500 without leaking details.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
