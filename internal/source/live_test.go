package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltshine/storefront/internal/catalog"
)

func TestLive_ProductsPagination(t *testing.T) {
	const pageSize = 2

	// Three products: a full page then a short one.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products.json", r.URL.Path)
		require.Equal(t, strconv.Itoa(pageSize), r.URL.Query().Get("limit"))

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)

		var products []catalog.Product
		switch page {
		case 1:
			products = []catalog.Product{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
		case 2:
			products = []catalog.Product{{ID: 3, Title: "C"}}
		default:
			t.Fatalf("unexpected page %d", page)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"products": products})
	}))
	defer srv.Close()

	live := NewLive(srv.URL, pageSize)
	payload, err := live.Products(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "live", payload.Source)
	assert.Equal(t, 3, payload.Total)
	require.Len(t, payload.Products, 3)
	assert.Equal(t, int64(3), payload.Products[2].ID)
}

func TestLive_CollectionsSinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections.json", r.URL.Path)
		fmt.Fprint(w, `{"collections":[{"id":7,"title":"Garden","handle":"garden"}]}`)
	}))
	defer srv.Close()

	live := NewLive(srv.URL+"/", 50)
	payload, err := live.Collections(context.Background())
	require.NoError(t, err)

	require.Len(t, payload.Collections, 1)
	assert.Equal(t, "garden", payload.Collections[0].Handle)
}

func TestLive_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	live := NewLive(srv.URL, 50)
	_, err := live.Products(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestLive_MalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	live := NewLive(srv.URL, 50)
	_, err := live.Products(context.Background())
	require.Error(t, err)
}

func TestLive_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"products":[]}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	live := NewLive(srv.URL, 50)
	_, err := live.Products(ctx)
	require.Error(t, err)
}
