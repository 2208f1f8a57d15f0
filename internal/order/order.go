// Copyright (c) 2026 Driftline. All rights reserved.

/*
Package order owns the post-payment order lifecycle.

An order is created exactly once per completed payment session (finalization
is idempotent on the session id) and then moves through a small fulfilment
state machine. Customers can list and inspect only their own orders.
*/
package order

import (
	"time"

	"github.com/driftline/driftline/internal/account"
	"github.com/driftline/driftline/internal/payment"
)

// # Order Status

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// transitions enumerates the legal fulfilment moves. Delivered and cancelled
// are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order in state s may move to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// # Domain Entities

// Item is one purchased line frozen onto the order at finalization.
//
// It shares its wire shape with the checkout metadata snapshot, which is the
// single source the lines are copied from.
type Item = payment.CheckoutItem

// Order is a completed purchase.
type Order struct {
	ID               string                   `json:"id"`
	UserID           string                   `json:"user_id"`
	PaymentSessionID string                   `json:"-"`
	Items            []Item                   `json:"items"`
	TotalAmount      float64                  `json:"total_amount"`
	Status           Status                   `json:"status"`
	ShippingAddr     *account.ShippingAddress `json:"shipping_address,omitempty"`
	TrackingNumber   *string                  `json:"tracking_number,omitempty"`
	OrderDate        time.Time                `json:"order_date"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}
