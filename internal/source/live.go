// Package source resolves the working catalog dataset through a prioritized
// chain of data tiers: live remote, snapshot files, Postgres store, and the
// embedded seed.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/saltshine/storefront/internal/catalog"
)

// DefaultPageSize is the page size used against the platform catalog
// endpoints.
const DefaultPageSize = 250

// maxPages bounds pagination so a misbehaving endpoint that always returns
// full pages cannot loop forever.
const maxPages = 200

// Live fetches the catalog from the commerce platform's JSON endpoints,
// paging until a short page signals the end of the listing.
type Live struct {
	base     string
	pageSize int
	client   *http.Client
}

// NewLive returns a live source for the given shop base URL
// (e.g. https://shop.example.com). The HTTP client is otel-instrumented.
func NewLive(shopBase string, pageSize int) *Live {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Live{
		base:     trimBase(shopBase),
		pageSize: pageSize,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Name implements Source.
func (l *Live) Name() string { return "live" }

// Products pages through {base}/products.json accumulating every product.
func (l *Live) Products(ctx context.Context) (*catalog.Payload, error) {
	var all []catalog.Product
	for page := 1; page <= maxPages; page++ {
		var body struct {
			Products []catalog.Product `json:"products"`
		}
		if err := l.getPage(ctx, "/products.json", page, &body); err != nil {
			return nil, err
		}
		all = append(all, body.Products...)
		if len(body.Products) < l.pageSize {
			break
		}
	}
	return &catalog.Payload{
		GeneratedAt: time.Now().UTC(),
		Source:      l.Name(),
		Total:       len(all),
		Products:    all,
	}, nil
}

// Collections pages through {base}/collections.json.
func (l *Live) Collections(ctx context.Context) (*catalog.Payload, error) {
	var all []catalog.Collection
	for page := 1; page <= maxPages; page++ {
		var body struct {
			Collections []catalog.Collection `json:"collections"`
		}
		if err := l.getPage(ctx, "/collections.json", page, &body); err != nil {
			return nil, err
		}
		all = append(all, body.Collections...)
		if len(body.Collections) < l.pageSize {
			break
		}
	}
	return &catalog.Payload{
		GeneratedAt: time.Now().UTC(),
		Source:      l.Name(),
		Total:       len(all),
		Collections: all,
	}, nil
}

func (l *Live) getPage(ctx context.Context, path string, page int, out any) error {
	url := fmt.Sprintf("%s%s?limit=%d&page=%d", l.base, path, l.pageSize, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "fetch %s page %d", path, page)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return errors.Errorf("fetch %s page %d: status %d", path, page, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s page %d", path, page)
	}
	return nil
}

func trimBase(base string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base
}
