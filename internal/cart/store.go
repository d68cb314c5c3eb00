package cart

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Store persists the cart as a single JSON document, mirroring the
// browser-local storage key the UI owns: read once at session start,
// overwritten on every mutation. One store has one active writer.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// storedItem is the lenient persisted shape. Quantity is decoded as a float
// and floored so carts written by older clients still load.
type storedItem struct {
	ProductID int64           `json:"product_id"`
	Handle    string          `json:"handle"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  float64         `json:"quantity"`
	VariantID int64           `json:"variant_id"`
}

// Load reads and sanitizes the persisted cart. A missing file is an empty
// cart; unparsable entries are dropped rather than failing the load.
func (s *Store) Load() ([]LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read cart file")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// The whole document is unreadable: treat as an empty cart.
		return nil, nil
	}

	items := make([]LineItem, 0, len(raw))
	for _, entry := range raw {
		var si storedItem
		if err := json.Unmarshal(entry, &si); err != nil {
			continue
		}
		items = append(items, LineItem{
			ProductID: si.ProductID,
			Handle:    si.Handle,
			Title:     si.Title,
			Image:     si.Image,
			Price:     si.Price,
			Quantity:  int(si.Quantity),
			VariantID: si.VariantID,
		})
	}
	return SanitizeItems(items), nil
}

// Save overwrites the persisted cart with the given items. The write goes
// through a temp file and rename so a crash never leaves a torn document.
func (s *Store) Save(items []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create cart dir")
	}

	tmp, err := os.CreateTemp(dir, ".cart-*")
	if err != nil {
		return errors.Wrap(err, "create temp cart file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write cart")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close cart file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replace cart file")
	}
	return nil
}
