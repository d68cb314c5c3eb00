package source

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/saltshine/storefront/db"
	"github.com/saltshine/storefront/internal/catalog"
)

// Seed serves the embedded dataset. It has no external dependency and is
// the pipeline's guaranteed final tier.
type Seed struct{}

// NewSeed returns the embedded seed source.
func NewSeed() *Seed { return &Seed{} }

// Name implements Source.
func (s *Seed) Name() string { return "seed" }

// Products decodes the embedded product payload.
func (s *Seed) Products(_ context.Context) (*catalog.Payload, error) {
	return decodeSeed(db.SeedProducts)
}

// Collections decodes the embedded collection payload.
func (s *Seed) Collections(_ context.Context) (*catalog.Payload, error) {
	return decodeSeed(db.SeedCollections)
}

func decodeSeed(data []byte) (*catalog.Payload, error) {
	var payload catalog.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		// The seed is embedded at build time; this only fires on a broken
		// build and is covered by tests.
		return nil, errors.Wrap(err, "decode embedded seed")
	}
	payload.Source = "seed"
	return &payload, nil
}
