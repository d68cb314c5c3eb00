// Command catalog-sync pages the live shop catalog and writes snapshot
// artifacts: gzip JSON files for the snapshot tier and, when a database URL
// is given, rows for the Postgres store tier.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/saltshine/storefront/internal/catalog"
	"github.com/saltshine/storefront/internal/source"
	"github.com/saltshine/storefront/internal/storage/postgres"
)

func main() {
	var (
		shopBase    string
		outDir      string
		databaseURL string
		pageSize    int
	)

	flag.StringVar(&shopBase, "shop-base", "https://shop.example.com", "live shop origin to page the catalog from")
	flag.StringVar(&outDir, "out-dir", "data/snapshot", "directory to write snapshot files into")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env); skipped when empty")
	flag.IntVar(&pageSize, "page-size", source.DefaultPageSize, "catalog page size")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, shopBase, outDir, databaseURL, pageSize); err != nil {
		slog.Error("catalog sync failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog sync completed successfully")
}

func run(ctx context.Context, shopBase, outDir, databaseURL string, pageSize int) error {
	live := source.NewLive(shopBase, pageSize)

	slog.Info("fetching live catalog", slog.String("shop_base", shopBase))

	var products, collections *catalog.Payload
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := live.Products(gctx)
		if err != nil {
			return errors.Wrap(err, "fetch products")
		}
		products = p
		return nil
	})
	g.Go(func() error {
		c, err := live.Collections(gctx)
		if err != nil {
			return errors.Wrap(err, "fetch collections")
		}
		collections = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("catalog fetched",
		slog.Int("products", len(products.Products)),
		slog.Int("collections", len(collections.Collections)),
	)

	if err := source.WriteSnapshot(outDir, source.ProductsSnapshotFile, products); err != nil {
		return errors.Wrap(err, "write product snapshot")
	}
	if err := source.WriteSnapshot(outDir, source.CollectionsSnapshotFile, collections); err != nil {
		return errors.Wrap(err, "write collection snapshot")
	}
	slog.Info("snapshots written", slog.String("dir", outDir))

	if databaseURL == "" {
		slog.Info("no database URL, skipping store sync")
		return nil
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	store := postgres.NewCatalogStore(pool)
	if err := store.ReplaceProducts(ctx, products); err != nil {
		return errors.Wrap(err, "store products")
	}
	if err := store.ReplaceCollections(ctx, collections); err != nil {
		return errors.Wrap(err, "store collections")
	}
	slog.Info("store synced")

	return nil
}
