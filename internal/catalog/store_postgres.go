// Copyright (c) 2026 Driftline. All rights reserved.

// PostgreSQL implementation of the catalogue storage layer.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/driftline/driftline/internal/platform/dberr"
	"github.com/driftline/driftline/pkg/pagination"
)

// PostgresStore implements the [Store] interface using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL implementation of the catalogue Store.
func NewStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const productColumns = `id, slug, title, description, price, imageurl, sizes, colors, instock, collectionid, createdat, updatedat`

/*
FindProductByID retrieves a product by its unique id.

Parameters:
  - ctx: context.Context
  - id: string (UUIDv7)

Returns:
  - *Product: Hydrated product entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindProductByID(ctx context.Context, id string) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM store.product WHERE id = $1`, productColumns)
	return store.scanProduct(ctx, query, id)
}

/*
FindProductBySlug retrieves a product by its URL slug.

Parameters:
  - ctx: context.Context
  - slug: string

Returns:
  - *Product: Hydrated product entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindProductBySlug(ctx context.Context, slug string) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM store.product WHERE slug = $1`, productColumns)
	return store.scanProduct(ctx, query, slug)
}

/*
ListProducts returns a filtered, paginated slice of products and the total count.

Description: Uses COUNT(*) OVER() to retrieve the total record count without a
second query. When collectionSlug is non-empty the result is restricted to
products in that collection; an unknown slug simply yields zero rows.

Parameters:
  - ctx: context.Context
  - collectionSlug: string (empty means unfiltered)
  - params: pagination.Params

Returns:
  - []*Product: Page of products, newest first
  - int: Total count matching the filter
  - error: Database execution errors
*/
func (store *PostgresStore) ListProducts(ctx context.Context, collectionSlug string, params pagination.Params) ([]*Product, int, error) {

	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM store.product p
	`, prefixColumns("p", productColumns)))

	if collectionSlug != "" {
		queryBuilder.WriteString(`
		JOIN store.collection col ON col.id = p.collectionid
		WHERE col.slug = $1`)
		args = append(args, collectionSlug)
	}

	queryBuilder.WriteString(fmt.Sprintf(`
		ORDER BY p.createdat DESC, p.id DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2))
	args = append(args, params.Limit, params.Offset())

	rows, err := store.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_list_products_failed: %w", err)
	}
	defer rows.Close()

	products := []*Product{}
	total := 0
	for rows.Next() {
		product := &Product{}
		err := rows.Scan(
			&product.ID,
			&product.Slug,
			&product.Title,
			&product.Description,
			&product.Price,
			&product.ImageURL,
			&product.Sizes,
			&product.Colors,
			&product.InStock,
			&product.CollectionID,
			&product.CreatedAt,
			&product.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_catalog_scan_product_failed: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_list_products_rows_failed: %w", err)
	}

	return products, total, nil
}

/*
ListCollections returns every collection ordered alphabetically by title.

Parameters:
  - ctx: context.Context

Returns:
  - []*Collection: All collections
  - error: Database execution errors
*/
func (store *PostgresStore) ListCollections(ctx context.Context) ([]*Collection, error) {
	const query = `
		SELECT id, slug, title, description, imageurl, createdat, updatedat
		FROM store.collection
		ORDER BY title ASC`

	rows, err := store.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_catalog_list_collections_failed: %w", err)
	}
	defer rows.Close()

	collections := []*Collection{}
	for rows.Next() {
		collection := &Collection{}
		err := rows.Scan(
			&collection.ID,
			&collection.Slug,
			&collection.Title,
			&collection.Description,
			&collection.ImageURL,
			&collection.CreatedAt,
			&collection.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_catalog_scan_collection_failed: %w", err)
		}
		collections = append(collections, collection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_catalog_list_collections_rows_failed: %w", err)
	}

	return collections, nil
}

/*
FindCollectionBySlug retrieves a collection by its URL slug.

Parameters:
  - ctx: context.Context
  - slug: string

Returns:
  - *Collection: Hydrated collection entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindCollectionBySlug(ctx context.Context, slug string) (*Collection, error) {
	const query = `
		SELECT id, slug, title, description, imageurl, createdat, updatedat
		FROM store.collection
		WHERE slug = $1`

	collection := &Collection{}
	err := store.pool.QueryRow(ctx, query, slug).Scan(
		&collection.ID,
		&collection.Slug,
		&collection.Title,
		&collection.Description,
		&collection.ImageURL,
		&collection.CreatedAt,
		&collection.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Collection")
	}

	return collection, nil
}

// scanProduct runs a single-row product query and hydrates the entity.
func (store *PostgresStore) scanProduct(ctx context.Context, query string, arg any) (*Product, error) {
	product := &Product{}
	err := store.pool.QueryRow(ctx, query, arg).Scan(
		&product.ID,
		&product.Slug,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.ImageURL,
		&product.Sizes,
		&product.Colors,
		&product.InStock,
		&product.CollectionID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Product")
	}

	return product, nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = alias + "." + part
	}
	return strings.Join(parts, ", ")
}
