// Copyright (c) 2026 Driftline. All rights reserved.

package catalog

import (
	"context"

	"github.com/driftline/driftline/pkg/pagination"
)

// # Storage Contracts

/*
Store defines the read-only persistence contract for the catalogue.

# Error Contract

Single-entity lookups return apperr.NotFound when no row matches. List
operations return empty slices, never nil errors masquerading as "no results".
*/
type Store interface {
	// FindProductByID retrieves a product by its unique id. Checkout depends
	// on this lookup for live price resolution.
	FindProductByID(ctx context.Context, id string) (*Product, error)

	// FindProductBySlug retrieves a product by its URL slug.
	FindProductBySlug(ctx context.Context, slug string) (*Product, error)

	// ListProducts returns a page of products ordered newest first, plus the
	// total count across all pages. An empty collectionSlug means no
	// collection filter.
	ListProducts(ctx context.Context, collectionSlug string, params pagination.Params) ([]*Product, int, error)

	// ListCollections returns every collection ordered by title.
	ListCollections(ctx context.Context) ([]*Collection, error)

	// FindCollectionBySlug retrieves a collection by its URL slug.
	FindCollectionBySlug(ctx context.Context, slug string) (*Collection, error)
}

// ProductFinder is the narrow slice of [Store] that checkout needs.
type ProductFinder interface {
	FindProductByID(ctx context.Context, id string) (*Product, error)
}
