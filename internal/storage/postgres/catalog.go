package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/saltshine/storefront/internal/catalog"
)

const (
	listProductsSQL = `SELECT id, title, handle, body_html, vendor, product_type, tags,
			created_at, published_at, updated_at, image_src
		FROM products ORDER BY id`

	listVariantsSQL = `SELECT id, product_id, title, price, compare_at_price, available, sku
		FROM variants ORDER BY product_id, position, id`

	listCollectionsSQL = `SELECT id, title, handle, description, image_src, products_count
		FROM collections ORDER BY id`

	upsertProductSQL = `INSERT INTO products
			(id, title, handle, body_html, vendor, product_type, tags, created_at, published_at, updated_at, image_src)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, handle = EXCLUDED.handle, body_html = EXCLUDED.body_html,
			vendor = EXCLUDED.vendor, product_type = EXCLUDED.product_type, tags = EXCLUDED.tags,
			created_at = EXCLUDED.created_at, published_at = EXCLUDED.published_at,
			updated_at = EXCLUDED.updated_at, image_src = EXCLUDED.image_src`

	upsertVariantSQL = `INSERT INTO variants
			(id, product_id, title, price, compare_at_price, available, sku, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			product_id = EXCLUDED.product_id, title = EXCLUDED.title, price = EXCLUDED.price,
			compare_at_price = EXCLUDED.compare_at_price, available = EXCLUDED.available,
			sku = EXCLUDED.sku, position = EXCLUDED.position`

	upsertCollectionSQL = `INSERT INTO collections
			(id, title, handle, description, image_src, products_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, handle = EXCLUDED.handle, description = EXCLUDED.description,
			image_src = EXCLUDED.image_src, products_count = EXCLUDED.products_count`

	upsertSyncStateSQL = `INSERT INTO sync_state (kind, generated_at, total)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind) DO UPDATE SET
			generated_at = EXCLUDED.generated_at, total = EXCLUDED.total`

	getSyncStateSQL = `SELECT generated_at, total FROM sync_state WHERE kind = $1`
)

// CatalogStore reads and writes the synced catalog in PostgreSQL. It serves
// as a pipeline tier (reads) and as the sync job's destination (writes).
type CatalogStore struct {
	pool *pgxpool.Pool
}

// NewCatalogStore returns a CatalogStore backed by the given pool.
func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

// Name implements the pipeline Source interface.
func (s *CatalogStore) Name() string { return "store" }

// Products loads the stored products with their variants as one payload.
func (s *CatalogStore) Products(ctx context.Context) (*catalog.Payload, error) {
	rows, err := s.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, errors.Wrap(err, "scan products")
	}

	vrows, err := s.pool.Query(ctx, listVariantsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list variants")
	}
	variants, err := pgx.CollectRows(vrows, scanVariant)
	if err != nil {
		return nil, errors.Wrap(err, "scan variants")
	}

	byProduct := make(map[int64][]catalog.Variant, len(products))
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}
	for i := range products {
		products[i].Variants = byProduct[products[i].ID]
	}

	generatedAt, _, err := s.syncState(ctx, "products")
	if err != nil {
		return nil, err
	}
	return &catalog.Payload{
		GeneratedAt: generatedAt,
		Source:      s.Name(),
		Total:       len(products),
		Products:    products,
	}, nil
}

// Collections loads the stored collections as one payload.
func (s *CatalogStore) Collections(ctx context.Context) (*catalog.Payload, error) {
	rows, err := s.pool.Query(ctx, listCollectionsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list collections")
	}
	collections, err := pgx.CollectRows(rows, scanCollection)
	if err != nil {
		return nil, errors.Wrap(err, "scan collections")
	}

	generatedAt, _, err := s.syncState(ctx, "collections")
	if err != nil {
		return nil, err
	}
	return &catalog.Payload{
		GeneratedAt: generatedAt,
		Source:      s.Name(),
		Total:       len(collections),
		Collections: collections,
	}, nil
}

// ReplaceProducts upserts the payload's products and variants in one
// transaction and records the sync generation.
func (s *CatalogStore) ReplaceProducts(ctx context.Context, payload *catalog.Payload) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, p := range payload.Products {
			imageSrc := ""
			if p.Image != nil {
				imageSrc = p.Image.Src
			}
			if _, err := tx.Exec(ctx, upsertProductSQL,
				p.ID, p.Title, p.Handle, p.BodyHTML, p.Vendor, p.ProductType,
				[]string(p.Tags), p.CreatedAt, p.PublishedAt, p.UpdatedAt, imageSrc,
			); err != nil {
				return errors.Wrapf(err, "upsert product %d", p.ID)
			}
			for pos, v := range p.Variants {
				var compareAt any
				if v.CompareAtPrice.IsPositive() {
					compareAt = v.CompareAtPrice
				}
				if _, err := tx.Exec(ctx, upsertVariantSQL,
					v.ID, p.ID, v.Title, v.Price, compareAt, v.Available, v.SKU, pos,
				); err != nil {
					return errors.Wrapf(err, "upsert variant %d", v.ID)
				}
			}
		}
		if _, err := tx.Exec(ctx, upsertSyncStateSQL, "products", payload.GeneratedAt, len(payload.Products)); err != nil {
			return errors.Wrap(err, "record sync state")
		}
		return nil
	})
}

// ReplaceCollections upserts the payload's collections and records the sync
// generation.
func (s *CatalogStore) ReplaceCollections(ctx context.Context, payload *catalog.Payload) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, c := range payload.Collections {
			imageSrc := ""
			if c.Image != nil {
				imageSrc = c.Image.Src
			}
			if _, err := tx.Exec(ctx, upsertCollectionSQL,
				c.ID, c.Title, c.Handle, c.Description, imageSrc, c.ProductsCount,
			); err != nil {
				return errors.Wrapf(err, "upsert collection %d", c.ID)
			}
		}
		if _, err := tx.Exec(ctx, upsertSyncStateSQL, "collections", payload.GeneratedAt, len(payload.Collections)); err != nil {
			return errors.Wrap(err, "record sync state")
		}
		return nil
	})
}

func (s *CatalogStore) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

func (s *CatalogStore) syncState(ctx context.Context, kind string) (time.Time, int, error) {
	var (
		generatedAt time.Time
		total       int
	)
	err := s.pool.QueryRow(ctx, getSyncStateSQL, kind).Scan(&generatedAt, &total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Store never synced: an empty store is a failed tier, not an
			// empty catalog.
			return time.Time{}, 0, errors.Errorf("catalog store has no %s sync", kind)
		}
		return time.Time{}, 0, errors.Wrap(err, "read sync state")
	}
	return generatedAt, total, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p           catalog.Product
		tags        []string
		createdAt   *time.Time
		publishedAt *time.Time
		updatedAt   *time.Time
		imageSrc    string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Handle, &p.BodyHTML, &p.Vendor, &p.ProductType,
		&tags, &createdAt, &publishedAt, &updatedAt, &imageSrc,
	)
	if err != nil {
		return p, err
	}
	p.Tags = catalog.TagList(tags)
	if createdAt != nil {
		p.CreatedAt = *createdAt
	}
	p.PublishedAt = publishedAt
	if updatedAt != nil {
		p.UpdatedAt = *updatedAt
	}
	if imageSrc != "" {
		p.Image = &catalog.Image{Src: imageSrc, Position: 1}
	}
	return p, nil
}

func scanVariant(row pgx.CollectableRow) (catalog.Variant, error) {
	var (
		v         catalog.Variant
		compareAt decimal.NullDecimal
	)
	err := row.Scan(&v.ID, &v.ProductID, &v.Title, &v.Price, &compareAt, &v.Available, &v.SKU)
	if err != nil {
		return v, err
	}
	if compareAt.Valid {
		v.CompareAtPrice = compareAt.Decimal
	}
	return v, nil
}

func scanCollection(row pgx.CollectableRow) (catalog.Collection, error) {
	var (
		c        catalog.Collection
		imageSrc string
	)
	err := row.Scan(&c.ID, &c.Title, &c.Handle, &c.Description, &imageSrc, &c.ProductsCount)
	if err != nil {
		return c, err
	}
	if imageSrc != "" {
		c.Image = &catalog.Image{Src: imageSrc, Position: 1}
	}
	return c, nil
}
