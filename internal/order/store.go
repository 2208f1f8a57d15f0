// Copyright (c) 2026 Driftline. All rights reserved.

package order

import "context"

// # Storage Contracts

/*
Store defines the persistence contract for orders.

# Error Contract

Lookups return apperr.NotFound when no row matches. Insert surfaces a unique
violation on the payment session id untranslated so that the service can
detect the losing side of a concurrent finalization and recover.
*/
type Store interface {
	// Insert persists a new order. The paymentsessionid column carries a
	// unique index; a duplicate insert fails with the raw driver error.
	Insert(ctx context.Context, order *Order) error

	// FindByID retrieves an order by its unique id.
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByPaymentSessionID retrieves the order created for a payment
	// session, if any.
	FindByPaymentSessionID(ctx context.Context, sessionID string) (*Order, error)

	// ListByUser returns all of a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Order, error)

	// UpdateStatus writes a new status and optional tracking number. Legality
	// of the transition is the service's concern.
	UpdateStatus(ctx context.Context, id string, status Status, trackingNumber *string) error
}
