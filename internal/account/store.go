// Copyright (c) 2026 Driftline. All rights reserved.

package account

import "context"

// UserStore abstracts persistence for customer accounts.
//
// # Error Contract
//
// Lookup methods return an apperr NOT_FOUND when no record matches; Create
// returns an apperr CONFLICT on a duplicate email. All other failures are
// internal errors with the storage cause hidden from clients.
type UserStore interface {
	// Create persists a new user record.
	Create(ctx context.Context, user *User) error

	// FindByEmail retrieves a user by their case-normalized email address.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID retrieves a user by primary key.
	FindByID(ctx context.Context, id string) (*User, error)

	// Update persists changes to the user's mutable profile fields.
	// Email and password hash are never written through this method.
	Update(ctx context.Context, user *User) error
}
