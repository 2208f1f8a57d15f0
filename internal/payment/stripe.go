// Copyright (c) 2026 Driftline. All rights reserved.

// Stripe implementation of the payment [Processor] boundary.
package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/driftline/driftline/internal/account"
)

// Countries the hosted page may collect shipping addresses for.
var shippingCountries = []string{"US", "CA", "GB", "AU", "NZ"}

// StripeProcessor implements [Processor] against Stripe Checkout.
type StripeProcessor struct {
	api *client.API
}

// NewStripeProcessor creates a Stripe-backed processor using the given secret key.
func NewStripeProcessor(secretKey string) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{api: api}
}

/*
CreateSession opens a hosted Stripe Checkout session in payment mode.

Description: Each line becomes ad-hoc price data (the catalogue is not
mirrored into Stripe products). Metadata from the input is attached verbatim,
which is how the cart snapshot rides along to finalization.

Parameters:
  - ctx: context.Context
  - input: CreateSessionInput

Returns:
  - *CheckoutSession: Session with id and redirect URL populated
  - error: Raw Stripe API errors
*/
func (processor *StripeProcessor) CreateSession(ctx context.Context, input CreateSessionInput) (*CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(input.Lines))
	for _, line := range input.Lines {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(line.Name),
		}
		if line.Description != "" {
			productData.Description = stripe.String(line.Description)
		}
		if line.ImageURL != "" {
			productData.Images = stripe.StringSlice([]string{line.ImageURL})
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount:  stripe.Int64(line.UnitAmount),
				ProductData: productData,
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(input.SuccessURL),
		CancelURL:          stripe.String(input.CancelURL),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(shippingCountries),
		},
	}
	for key, value := range input.Metadata {
		params.AddMetadata(key, value)
	}

	session, err := processor.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe_create_session_failed: %w", err)
	}

	return fromStripeSession(session), nil
}

/*
GetSession retrieves a Stripe Checkout session by id.

Parameters:
  - ctx: context.Context
  - sessionID: string (Stripe "cs_..." id)

Returns:
  - *CheckoutSession: Processor-neutral session view
  - error: Raw Stripe API errors
*/
func (processor *StripeProcessor) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	}

	session, err := processor.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe_get_session_failed: %w", err)
	}

	return fromStripeSession(session), nil
}

// fromStripeSession maps the Stripe session shape onto the neutral one.
func fromStripeSession(session *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            session.ID,
		URL:           session.URL,
		PaymentStatus: string(session.PaymentStatus),
		AmountTotal:   session.AmountTotal,
		Metadata:      session.Metadata,
	}

	if details := session.CustomerDetails; details != nil {
		out.CustomerEmail = details.Email
		if address := details.Address; address != nil {
			out.ShippingAddr = &account.ShippingAddress{
				Street:  address.Line1,
				City:    address.City,
				State:   address.State,
				Zip:     address.PostalCode,
				Country: address.Country,
			}
		}
	}

	return out
}
