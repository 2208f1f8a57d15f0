// Copyright (c) 2026 Driftline. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/driftline/driftline/internal/platform/constants"
)

// # Product Cache

// cacheTTL bounds staleness of cached product entries. Checkout resolves
// prices through this cache, so the window also bounds how long a
// merchandising price change can lag on the charge path.
const cacheTTL = 5 * time.Minute

/*
CachedStore is a read-through Redis decorator over a catalogue [Store].

Only FindProductByID is cached: it sits on the checkout hot path, where every
submitted cart line triggers a lookup. Browse queries go straight to Postgres.

# Degradation

Cache failures are logged and otherwise ignored. A dead Redis must never take
the storefront down; reads simply fall through to the inner store.
*/
type CachedStore struct {
	Store
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewCachedStore wraps the given store with a Redis product cache.
func NewCachedStore(inner Store, redisClient *redis.Client, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		Store:       inner,
		redisClient: redisClient,
		logger:      logger,
	}
}

/*
FindProductByID retrieves a product, consulting Redis before Postgres.

Description: On a cache hit the stored JSON is decoded and returned without
touching the database. On a miss (or any Redis error, or an undecodable
entry) the inner store resolves the product and the result is written back
with a bounded TTL.

Parameters:
  - ctx: context.Context
  - id: string (UUIDv7)

Returns:
  - *Product: Hydrated product entity
  - error: apperr.NotFound or inner store errors
*/
func (store *CachedStore) FindProductByID(ctx context.Context, id string) (*Product, error) {
	key := constants.RedisPrefixProduct + id

	cached, err := store.redisClient.Get(ctx, key).Bytes()
	if err == nil {
		product := &Product{}
		if err := json.Unmarshal(cached, product); err == nil {
			return product, nil
		}
		// Undecodable entry, likely a stale format. Fall through and rewrite.
	} else if !errors.Is(err, redis.Nil) {
		store.logger.Warn("product cache read failed", "product_id", id, "error", err)
	}

	product, err := store.Store.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		if err := store.redisClient.Set(ctx, key, data, cacheTTL).Err(); err != nil {
			store.logger.Warn("product cache write failed", "product_id", id, "error", err)
		}
	}

	return product, nil
}
