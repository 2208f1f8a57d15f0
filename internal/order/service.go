// Copyright (c) 2026 Driftline. All rights reserved.

package order

import (
	"context"
	"fmt"
	"time"

	"github.com/driftline/driftline/internal/payment"
	"github.com/driftline/driftline/internal/platform/apperr"
	"github.com/driftline/driftline/internal/platform/dberr"
	"github.com/driftline/driftline/pkg/uuid"
)

// # Order Service

// Service orchestrates order finalization, queries and fulfilment moves.
type Service struct {
	orderStore Store
	processor  payment.Processor
}

// NewService creates the order service.
func NewService(orderStore Store, processor payment.Processor) *Service {
	return &Service{
		orderStore: orderStore,
		processor:  processor,
	}
}

/*
Finalize turns a completed payment session into a persisted order.

Description: The operation is idempotent on the payment session id. A repeat
call (page refresh on the success page, double-submit, retry) returns the
already-created order instead of inserting a duplicate. Two concurrent first
calls race on the unique index; the loser detects the violation and re-reads
the winner's row.

The purchased lines come from the session's metadata snapshot taken at
checkout, never from a fresh client submission. The total comes from the
processor's settled amount.

Parameters:
  - ctx: context.Context
  - userID: string (authenticated caller)
  - sessionID: string (processor session id from the success redirect)

Returns:
  - *Order: The finalized (or previously finalized) order
  - error: apperr.PaymentSession on processor failures,
    apperr.PaymentNotCompleted if the session is not paid,
    apperr.Forbidden if the session's order belongs to someone else
*/
func (service *Service) Finalize(ctx context.Context, userID, sessionID string) (*Order, error) {
	if sessionID == "" {
		return nil, apperr.ValidationError("Session id is required")
	}

	if existing, err := service.orderStore.FindByPaymentSessionID(ctx, sessionID); err == nil {
		return service.guardOwnership(existing, userID)
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	session, err := service.processor.GetSession(ctx, sessionID)
	if err != nil {
		return nil, apperr.PaymentSession(err)
	}
	if !session.Paid() {
		return nil, apperr.PaymentNotCompleted()
	}

	items, err := payment.DecodeItemsMetadata(session.Metadata)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newOrder := &Order{
		ID:               uuid.New(),
		UserID:           userID,
		PaymentSessionID: sessionID,
		Items:            items,
		TotalAmount:      float64(session.AmountTotal) / 100,
		Status:           StatusPending,
		ShippingAddr:     session.ShippingAddr,
		OrderDate:        now,
	}

	if err := service.orderStore.Insert(ctx, newOrder); err != nil {
		if dberr.IsUniqueViolation(err) {
			// Lost the finalization race; the winner's row is authoritative.
			winner, findErr := service.orderStore.FindByPaymentSessionID(ctx, sessionID)
			if findErr != nil {
				return nil, findErr
			}
			return service.guardOwnership(winner, userID)
		}
		return nil, fmt.Errorf("order_service_finalize_insert_failed: %w", err)
	}

	return newOrder, nil
}

/*
ListForUser returns the caller's orders, newest first.

Parameters:
  - ctx: context.Context
  - userID: string (authenticated caller)

Returns:
  - []*Order: The caller's orders (possibly empty)
  - error: Storage errors
*/
func (service *Service) ListForUser(ctx context.Context, userID string) ([]*Order, error) {
	return service.orderStore.ListByUser(ctx, userID)
}

/*
Get retrieves a single order, enforcing ownership.

Description: Existence is checked before ownership, so a caller probing a
foreign order id learns it exists (403) while a bogus id stays a 404. The
order of those checks matches the query semantics: not found is about the
resource, forbidden is about the caller.

Parameters:
  - ctx: context.Context
  - userID: string (authenticated caller)
  - orderID: string

Returns:
  - *Order: The order
  - error: apperr.NotFound, apperr.Forbidden, or storage errors
*/
func (service *Service) Get(ctx context.Context, userID, orderID string) (*Order, error) {
	order, err := service.orderStore.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return service.guardOwnership(order, userID)
}

/*
AdvanceStatus moves an order through the fulfilment state machine.

Description: Only transitions in the legal table are accepted (pending to
processing or cancelled, processing to shipped or cancelled, shipped to
delivered). Terminal states reject every move. A tracking number may be
attached alongside the move to shipped.

Parameters:
  - ctx: context.Context
  - userID: string (authenticated caller; must own the order)
  - orderID: string
  - next: Status
  - trackingNumber: *string (optional)

Returns:
  - *Order: The order with its new status
  - error: apperr.ValidationError on an illegal transition,
    apperr.NotFound / apperr.Forbidden as in [Service.Get]
*/
func (service *Service) AdvanceStatus(ctx context.Context, userID, orderID string, next Status, trackingNumber *string) (*Order, error) {
	if !next.Valid() {
		return nil, apperr.ValidationError(fmt.Sprintf("Unknown order status %q", next))
	}

	order, err := service.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransition(next) {
		return nil, apperr.ValidationError(fmt.Sprintf("Cannot move order from %s to %s", order.Status, next))
	}

	if err := service.orderStore.UpdateStatus(ctx, orderID, next, trackingNumber); err != nil {
		return nil, err
	}

	order.Status = next
	if trackingNumber != nil {
		order.TrackingNumber = trackingNumber
	}
	return order, nil
}

// guardOwnership rejects access to orders the caller does not own.
func (service *Service) guardOwnership(order *Order, userID string) (*Order, error) {
	if order.UserID != userID {
		return nil, apperr.Forbidden("You do not have access to this order")
	}
	return order, nil
}

