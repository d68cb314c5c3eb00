package source

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/saltshine/storefront/internal/catalog"
)

// Snapshot file names inside the snapshot directory. The sync job writes the
// gzip forms; plain .json files are accepted for hand-placed snapshots.
const (
	ProductsSnapshotFile    = "products.json.gz"
	CollectionsSnapshotFile = "collections.json.gz"
)

// Snapshot serves catalog payloads from static files produced by the sync
// job.
type Snapshot struct {
	dir string
}

// NewSnapshot returns a snapshot source rooted at dir.
func NewSnapshot(dir string) *Snapshot {
	return &Snapshot{dir: dir}
}

// Name implements Source.
func (s *Snapshot) Name() string { return "snapshot" }

// Products reads the product snapshot file.
func (s *Snapshot) Products(ctx context.Context) (*catalog.Payload, error) {
	return s.read(ctx, ProductsSnapshotFile)
}

// Collections reads the collection snapshot file.
func (s *Snapshot) Collections(ctx context.Context) (*catalog.Payload, error) {
	return s.read(ctx, CollectionsSnapshotFile)
}

func (s *Snapshot) read(ctx context.Context, name string) (*catalog.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		// Fall back to an uncompressed snapshot with the same stem.
		plain := strings.TrimSuffix(path, ".gz")
		if plain == path {
			return nil, errors.Wrap(err, "open snapshot")
		}
		if f, err = os.Open(plain); err != nil {
			return nil, errors.Wrap(err, "open snapshot")
		}
		path = plain
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "open gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	var payload catalog.Payload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, errors.Wrapf(err, "decode snapshot %s", path)
	}
	if payload.Source == "" {
		payload.Source = s.Name()
	}
	return &payload, nil
}

// WriteSnapshot writes a payload as a gzip-compressed JSON snapshot file,
// creating the directory as needed. The write is atomic (temp file plus
// rename) so readers never observe a partial snapshot.
func WriteSnapshot(dir, name string, payload *catalog.Payload) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create snapshot dir")
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	gz := pgzip.NewWriter(tmp)
	if err := json.NewEncoder(gz).Encode(payload); err != nil {
		_ = gz.Close()
		_ = tmp.Close()
		return errors.Wrap(err, "encode snapshot")
	}
	if err := gz.Close(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "close gzip writer")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp snapshot")
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return errors.Wrap(err, "replace snapshot")
	}
	return nil
}
