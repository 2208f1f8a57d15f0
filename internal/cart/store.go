// Copyright (c) 2026 Driftline. All rights reserved.

package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/driftline/driftline/internal/platform/constants"
)

// snapshotTTL is how long an untouched cart snapshot survives server-side.
// Each save resets the clock, so only abandoned carts expire.
const snapshotTTL = 30 * 24 * time.Hour

// # Storage Contracts

/*
Store persists cart snapshots keyed by an opaque client-generated cart id.

The server copy is a convenience mirror for clients without durable local
storage, never the authority: the client's in-memory cart always wins, and
checkout takes the submitted lines, not the stored ones.
*/
type Store interface {
	// Save overwrites the snapshot for the given cart id.
	Save(ctx context.Context, cartID string, cart *Cart) error

	// Load returns the snapshot for the given cart id. An unknown id or a
	// corrupt snapshot yields an empty cart, never an error.
	Load(ctx context.Context, cartID string) (*Cart, error)
}

// RedisStore implements [Store] on Redis with per-key expiry.
type RedisStore struct {
	redisClient *redis.Client
}

// NewRedisStore creates a Redis-backed cart snapshot store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{redisClient: redisClient}
}

/*
Save overwrites the snapshot for the given cart id and refreshes its expiry.

Parameters:
  - ctx: context.Context
  - cartID: string (opaque, client-generated)
  - cart: *Cart

Returns:
  - error: Serialization or Redis failures
*/
func (store *RedisStore) Save(ctx context.Context, cartID string, cart *Cart) error {
	data, err := cart.Snapshot()
	if err != nil {
		return fmt.Errorf("cart_store_snapshot_failed: %w", err)
	}

	if err := store.redisClient.Set(ctx, constants.RedisPrefixCart+cartID, data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("cart_store_save_failed: %w", err)
	}

	return nil
}

/*
Load returns the stored snapshot for the given cart id.

Description: A missing key means the cart was never saved or has expired;
both yield an empty cart. Corrupt payloads also degrade to an empty cart via
the codec's tolerance.

Parameters:
  - ctx: context.Context
  - cartID: string

Returns:
  - *Cart: The reconstructed cart (possibly empty)
  - error: Redis failures other than a missing key
*/
func (store *RedisStore) Load(ctx context.Context, cartID string) (*Cart, error) {
	data, err := store.redisClient.Get(ctx, constants.RedisPrefixCart+cartID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return nil, fmt.Errorf("cart_store_load_failed: %w", err)
	}

	return Load(data), nil
}
