// Copyright (c) 2026 Driftline. All rights reserved.

// PostgreSQL implementation of the account storage layer.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/driftline/driftline/internal/platform/apperr"
	"github.com/driftline/driftline/internal/platform/dberr"
)

// PostgresUserStore implements the [UserStore] interface using pgx.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore.
func NewUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

/*
Create persists a new user record into the store.customer table.

Description: Inserts the account row, initializing timestamps if not provided.
A duplicate email violates the unique index and surfaces as a CONFLICT.

Parameters:
  - ctx: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or storage errors
*/
func (store *PostgresUserStore) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO store.customer (
			id, email, passwordhash, firstname, lastname, phone, shippingaddress, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.ShippingAddr,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email already registered")
		}
		return fmt.Errorf("postgres_user_store_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Performs a lookup on the customer table. Callers must pass the
case-normalized (lowercase) email.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, firstname, lastname, phone, shippingaddress, createdat, updatedat
		FROM store.customer
		WHERE email = $1`

	return store.scanOne(ctx, query, email)
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - ctx: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, firstname, lastname, phone, shippingaddress, createdat, updatedat
		FROM store.customer
		WHERE id = $1`

	return store.scanOne(ctx, query, id)
}

/*
Update persists changes to a user's mutable profile fields.

Description: Synchronizes the in-memory user state with the database,
refreshing the updatedat timestamp. Email and password hash columns are
deliberately absent from the statement; they are immutable through this path.

Parameters:
  - ctx: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (store *PostgresUserStore) Update(ctx context.Context, user *User) error {
	const query = `
		UPDATE store.customer
		SET firstname = $2, lastname = $3, phone = $4, shippingaddress = $5, updatedat = $6
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := store.pool.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.ShippingAddr,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_store_update_failed: %w", err)
	}

	return nil
}

// scanOne runs a single-row customer query and hydrates the entity.
func (store *PostgresUserStore) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := store.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.ShippingAddr,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_store_find_failed: %w", err)
	}

	return user, nil
}
