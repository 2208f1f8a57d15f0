// Copyright (c) 2026 Driftline. All rights reserved.

// Command seed loads a small demo catalogue into the database.
//
// It exists for local development and staging: the real catalogue is authored
// by the merchandising pipeline, but a fresh environment needs products to
// browse and check out against. Seeding is idempotent via slug upserts, so
// running it twice changes nothing.
//
// It reads the same environment the API server does and applies pending
// migrations before inserting.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/driftline/driftline/internal/platform/config"
	"github.com/driftline/driftline/internal/platform/migration"
	pgstore "github.com/driftline/driftline/internal/platform/postgres"
	"github.com/driftline/driftline/pkg/slug"
	"github.com/driftline/driftline/pkg/uuid"
)

type seedCollection struct {
	title       string
	description string
	products    []seedProduct
}

type seedProduct struct {
	title       string
	description string
	price       float64
	sizes       []string
	colors      []string
}

// catalogue is the demo inventory. Titles double as slug sources.
var catalogue = []seedCollection{
	{
		title:       "Boardwear",
		description: "Trunks and shorts built for long sessions.",
		products: []seedProduct{
			{"Driftline Board Shorts", "Quick-dry 4-way stretch board shorts.", 45.00, []string{"S", "M", "L", "XL"}, []string{"navy", "coral"}},
			{"Séance Springsuit", "2mm back-zip springsuit for shoulder-season water.", 129.00, []string{"S", "M", "L"}, []string{"black"}},
		},
	},
	{
		title:       "Rash Guards",
		description: "UPF 50+ tops for sun and board rash.",
		products: []seedProduct{
			{"Rash Guard Classic", "Long-sleeve UPF 50+ rash guard.", 29.99, []string{"XS", "S", "M", "L", "XL"}, []string{"white", "navy"}},
		},
	},
	{
		title:       "Accessories",
		description: "Wax, leashes, and everything else that lives in the boot.",
		products: []seedProduct{
			{"Tropical Wax 3-Pack", "Sticky basecoat and topcoat for warm water.", 9.00, nil, nil},
			{"8ft Leash", "Double swivel, rail-saver, 8 foot.", 24.50, nil, []string{"black", "seafoam"}},
		},
	},
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "driftline-seed"))

	cfg, err := config.Load()
	must(log, err, "load configuration")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	for _, collection := range catalogue {
		collectionID, err := upsertCollection(ctx, pool, collection)
		must(log, err, "seed collection "+collection.title)

		for _, product := range collection.products {
			must(log, upsertProduct(ctx, pool, collectionID, product), "seed product "+product.title)
		}

		log.Info("collection_seeded",
			slog.String("collection", collection.title),
			slog.Int("products", len(collection.products)),
		)
	}

	log.Info("seed_complete")
}

// upsertCollection inserts the collection if its slug is new and returns its id.
func upsertCollection(ctx context.Context, pool *pgxpool.Pool, collection seedCollection) (string, error) {
	const query = `
		INSERT INTO store.collection (id, slug, title, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description, updatedat = now()
		RETURNING id`

	var id string
	err := pool.QueryRow(ctx, query,
		uuid.New(),
		slug.From(collection.title),
		collection.title,
		collection.description,
	).Scan(&id)
	return id, err
}

// upsertProduct inserts the product if its slug is new.
func upsertProduct(ctx context.Context, pool *pgxpool.Pool, collectionID string, product seedProduct) error {
	const query = `
		INSERT INTO store.product (id, slug, title, description, price, sizes, colors, collectionid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			sizes = EXCLUDED.sizes,
			colors = EXCLUDED.colors,
			collectionid = EXCLUDED.collectionid,
			updatedat = now()`

	sizes := product.sizes
	if sizes == nil {
		sizes = []string{}
	}
	colors := product.colors
	if colors == nil {
		colors = []string{}
	}

	_, err := pool.Exec(ctx, query,
		uuid.New(),
		slug.From(product.title),
		product.title,
		product.description,
		product.price,
		sizes,
		colors,
		collectionID,
	)
	return err
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("seed failure", slog.String("context", context), slog.Any("error", err))
		os.Exit(1)
	}
}
