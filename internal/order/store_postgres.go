// Copyright (c) 2026 Driftline. All rights reserved.

// PostgreSQL implementation of the order storage layer.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types, with one exception: unique violations on the
// payment session id pass through raw so the service can resolve finalization
// races.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/driftline/driftline/internal/platform/apperr"
)

// PostgresStore implements the [Store] interface using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL implementation of the order Store.
func NewStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const orderColumns = `id, userid, paymentsessionid, items, totalamount, status, shippingaddress, trackingnumber, orderdate, createdat, updatedat`

/*
Insert persists a new order row.

Description: The store.order table enforces one order per payment session via
a unique index on paymentsessionid. A violation is returned unwrapped by
design; callers inspect it with dberr.IsUniqueViolation.

Parameters:
  - ctx: context.Context
  - order: *Order (Entity to persist)

Returns:
  - error: Raw unique violation, or wrapped execution errors
*/
func (store *PostgresStore) Insert(ctx context.Context, order *Order) error {
	query := fmt.Sprintf(`
		INSERT INTO store."order" (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, orderColumns)

	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.PaymentSessionID,
		order.Items,
		order.TotalAmount,
		order.Status,
		order.ShippingAddr,
		order.TrackingNumber,
		order.OrderDate,
		order.CreatedAt,
		order.UpdatedAt,
	)

	return err
}

/*
FindByID retrieves an order by its unique id.

Parameters:
  - ctx: context.Context
  - id: string (UUIDv7)

Returns:
  - *Order: Hydrated order entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM store."order" WHERE id = $1`, orderColumns)
	return store.scanOne(ctx, query, id)
}

/*
FindByPaymentSessionID retrieves the order finalized from a payment session.

Parameters:
  - ctx: context.Context
  - sessionID: string (processor session id)

Returns:
  - *Order: Hydrated order entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindByPaymentSessionID(ctx context.Context, sessionID string) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM store."order" WHERE paymentsessionid = $1`, orderColumns)
	return store.scanOne(ctx, query, sessionID)
}

/*
ListByUser returns all orders belonging to a user, newest first.

Description: Ordering is createdat descending with id as a tie break, so two
orders created in the same instant still list deterministically.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - []*Order: The user's orders (possibly empty)
  - error: Database execution errors
*/
func (store *PostgresStore) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM store."order"
		WHERE userid = $1
		ORDER BY createdat DESC, id DESC`, orderColumns)

	rows, err := store.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_order_store_list_failed: %w", err)
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_order_store_list_rows_failed: %w", err)
	}

	return orders, nil
}

/*
UpdateStatus writes a new fulfilment status and optional tracking number.

Parameters:
  - ctx: context.Context
  - id: string
  - status: Status (already validated by the service)
  - trackingNumber: *string (nil leaves the column untouched)

Returns:
  - error: apperr.NotFound if the order vanished, or execution errors
*/
func (store *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status, trackingNumber *string) error {
	const query = `
		UPDATE store."order"
		SET status = $2, trackingnumber = COALESCE($3, trackingnumber), updatedat = $4
		WHERE id = $1`

	tag, err := store.pool.Exec(ctx, query, id, status, trackingNumber, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_order_store_update_status_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Order")
	}

	return nil
}

// scanOne runs a single-row order query and hydrates the entity.
func (store *PostgresStore) scanOne(ctx context.Context, query string, arg any) (*Order, error) {
	order, err := scanOrder(store.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Order")
		}
		return nil, err
	}
	return order, nil
}

// scanOrder hydrates one order from a pgx row.
func scanOrder(row pgx.Row) (*Order, error) {
	order := &Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.PaymentSessionID,
		&order.Items,
		&order.TotalAmount,
		&order.Status,
		&order.ShippingAddr,
		&order.TrackingNumber,
		&order.OrderDate,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("postgres_order_store_scan_failed: %w", err)
	}
	return order, nil
}
