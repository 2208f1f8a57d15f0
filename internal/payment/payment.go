// Copyright (c) 2026 Driftline. All rights reserved.

/*
Package payment handles checkout: turning a submitted cart into a hosted
payment session with the card processor.

The storefront never touches card data. It builds a session from live
catalogue prices, hands the customer a redirect URL, and later reads the
session back to learn the payment outcome. The submitted cart is snapshotted
into the session's metadata so that order finalization can reconstruct the
purchased lines without trusting a second client submission.
*/
package payment

import (
	"context"

	"github.com/driftline/driftline/internal/account"
)

// # Payment Session Types

// Session payment states as reported by the processor.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// MetadataItemsKey is the session metadata key holding the cart snapshot.
const MetadataItemsKey = "items"

// CheckoutItem is one purchased line as snapshotted into session metadata and
// later copied onto the order.
type CheckoutItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// SessionLine is one displayable line item sent to the processor's hosted page.
type SessionLine struct {
	Name        string
	Description string
	ImageURL    string
	UnitAmount  int64 // smallest currency unit (cents)
	Quantity    int64
}

// CreateSessionInput carries everything needed to open a hosted session.
type CreateSessionInput struct {
	Lines      []SessionLine
	Metadata   map[string]string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the processor-neutral view of a hosted payment session.
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   int64 // smallest currency unit (cents)
	CustomerEmail string
	ShippingAddr  *account.ShippingAddress
	Metadata      map[string]string
}

// Paid reports whether the processor confirmed successful payment.
func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == StatusPaid
}

// # Processor Contract

/*
Processor abstracts the card processor boundary.

# Error Contract

Implementations return raw processor errors; callers wrap them into the
application error taxonomy so processor details never reach clients.
*/
type Processor interface {
	// CreateSession opens a hosted payment session and returns it with the
	// redirect URL populated.
	CreateSession(ctx context.Context, input CreateSessionInput) (*CheckoutSession, error)

	// GetSession retrieves a session by id, including its payment status,
	// totals, collected shipping address and metadata.
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
