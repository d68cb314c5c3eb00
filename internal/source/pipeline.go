package source

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/saltshine/storefront/internal/catalog"
)

// Mode selects which tiers the pipeline consults before the seed.
type Mode string

const (
	// ModeLive tries the remote catalog only.
	ModeLive Mode = "live"
	// ModeSnapshot tries the on-disk snapshot only.
	ModeSnapshot Mode = "snapshot"
	// ModeSeed serves the embedded dataset directly.
	ModeSeed Mode = "seed"
	// ModeHybrid degrades live -> snapshot -> store -> seed.
	ModeHybrid Mode = "hybrid"
)

// DefaultStaleness is how long a loaded dataset is served before the
// pipeline refetches.
const DefaultStaleness = 15 * time.Minute

// Source is one data tier. Implementations must treat any internal failure
// as an error return; the pipeline decides what to do about it.
type Source interface {
	Name() string
	Products(ctx context.Context) (*catalog.Payload, error)
	Collections(ctx context.Context) (*catalog.Payload, error)
}

// Dataset is the working catalog the rest of the application consumes.
type Dataset struct {
	Products    catalog.Payload
	Collections catalog.Payload
}

// Pipeline resolves the dataset through an ordered tier chain and caches the
// result for a staleness window. Every chain ends in the seed tier, so a
// load can degrade but never fail outright.
type Pipeline struct {
	chain     []Source
	staleness time.Duration
	lg        *zap.Logger

	mu       sync.Mutex
	cached   *Dataset
	loadedAt time.Time
}

// Options configures pipeline construction.
type Options struct {
	Mode      Mode
	Live      Source // required for ModeLive / ModeHybrid
	Snapshot  Source // required for ModeSnapshot / ModeHybrid
	Store     Source // optional extra tier before seed in ModeHybrid
	Staleness time.Duration
}

// NewPipeline builds the tier chain for the given mode. The seed tier is
// always appended last.
func NewPipeline(opts Options, lg *zap.Logger) *Pipeline {
	var chain []Source
	switch opts.Mode {
	case ModeLive:
		chain = appendSource(chain, opts.Live)
	case ModeSnapshot:
		chain = appendSource(chain, opts.Snapshot)
	case ModeSeed:
		// seed only
	default: // ModeHybrid
		chain = appendSource(chain, opts.Live)
		chain = appendSource(chain, opts.Snapshot)
		chain = appendSource(chain, opts.Store)
	}
	chain = append(chain, NewSeed())

	staleness := opts.Staleness
	if staleness <= 0 {
		staleness = DefaultStaleness
	}
	return &Pipeline{chain: chain, staleness: staleness, lg: lg}
}

func appendSource(chain []Source, s Source) []Source {
	if s == nil {
		return chain
	}
	return append(chain, s)
}

// Dataset returns the current dataset, loading it if the cache is empty or
// older than the staleness window. Products and collections load
// concurrently; each walks the tier chain independently, so a partial live
// outage can serve live products with snapshot collections.
func (p *Pipeline) Dataset(ctx context.Context) (*Dataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && time.Since(p.loadedAt) < p.staleness {
		return p.cached, nil
	}

	ds := &Dataset{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		payload, err := p.resolve(gctx, func(s Source) (*catalog.Payload, error) {
			return s.Products(gctx)
		})
		if err != nil {
			return errors.Wrap(err, "load products")
		}
		ds.Products = *payload
		return nil
	})
	g.Go(func() error {
		payload, err := p.resolve(gctx, func(s Source) (*catalog.Payload, error) {
			return s.Collections(gctx)
		})
		if err != nil {
			return errors.Wrap(err, "load collections")
		}
		ds.Collections = *payload
		return nil
	})
	if err := g.Wait(); err != nil {
		// Only possible if the seed itself is broken.
		return nil, err
	}

	p.cached = ds
	p.loadedAt = time.Now()
	return ds, nil
}

// Invalidate drops the cached dataset so the next Dataset call reloads.
func (p *Pipeline) Invalidate() {
	p.mu.Lock()
	p.cached = nil
	p.mu.Unlock()
}

// resolve walks the tier chain, swallowing per-tier failures until a tier
// succeeds. Failures are logged, never surfaced, unless every tier fails.
func (p *Pipeline) resolve(ctx context.Context, fetch func(Source) (*catalog.Payload, error)) (*catalog.Payload, error) {
	var lastErr error
	for _, s := range p.chain {
		payload, err := fetch(s)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		if p.lg != nil {
			p.lg.Warn("catalog tier failed, degrading",
				zap.String("tier", s.Name()),
				zap.Error(err),
			)
		}
	}
	return nil, lastErr
}
