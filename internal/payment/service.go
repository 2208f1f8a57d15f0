// Copyright (c) 2026 Driftline. All rights reserved.

package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/driftline/driftline/internal/catalog"
	"github.com/driftline/driftline/internal/platform/apperr"
)

// # Checkout Service

// CheckoutLine is one cart line as submitted by the client. Only the product
// reference, quantity and variant choice are trusted; titles and prices are
// re-resolved from the live catalogue.
type CheckoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Service orchestrates checkout session creation.
type Service struct {
	processor Processor
	products  catalog.ProductFinder
	siteURL   string
}

// NewService creates the checkout service.
//
// siteURL is the public origin of the storefront, used to build the success
// and cancel redirect URLs.
func NewService(processor Processor, products catalog.ProductFinder, siteURL string) *Service {
	return &Service{
		processor: processor,
		products:  products,
		siteURL:   siteURL,
	}
}

/*
CreateCheckoutSession opens a hosted payment session for the submitted cart.

Description: Every line's product is resolved from the live catalogue, so the
amount charged always reflects current prices regardless of what the client's
cached cart believed. The resolved lines are also serialized into session
metadata as the authoritative purchase snapshot for later order finalization.

Parameters:
  - ctx: context.Context
  - lines: []CheckoutLine (client-submitted cart)

Returns:
  - string: Redirect URL of the hosted payment page
  - error: apperr.ValidationError on an empty or malformed cart,
    apperr.NotFound on an unknown product, apperr.PaymentSession on
    processor failures
*/
func (service *Service) CreateCheckoutSession(ctx context.Context, lines []CheckoutLine) (string, error) {
	if len(lines) == 0 {
		return "", apperr.ValidationError("Cart is empty")
	}

	sessionLines := make([]SessionLine, 0, len(lines))
	snapshot := make([]CheckoutItem, 0, len(lines))

	for _, line := range lines {
		if line.Quantity <= 0 {
			return "", apperr.ValidationError("Item quantity must be positive")
		}

		product, err := service.products.FindProductByID(ctx, line.ProductID)
		if err != nil {
			return "", err
		}

		sessionLines = append(sessionLines, SessionLine{
			Name:        product.Title,
			Description: variantDescription(line.Size, line.Color),
			ImageURL:    product.ImageURL,
			UnitAmount:  toCents(product.Price),
			Quantity:    int64(line.Quantity),
		})
		snapshot = append(snapshot, CheckoutItem{
			ProductID: product.ID,
			Title:     product.Title,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
		})
	}

	metadata, err := EncodeItemsMetadata(snapshot)
	if err != nil {
		return "", err
	}

	session, err := service.processor.CreateSession(ctx, CreateSessionInput{
		Lines:      sessionLines,
		Metadata:   metadata,
		SuccessURL: service.siteURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  service.siteURL + "/cart",
	})
	if err != nil {
		return "", apperr.PaymentSession(err)
	}

	return session.URL, nil
}

// variantDescription renders the "Size: M, Color: navy" line description.
func variantDescription(size, color string) string {
	switch {
	case size != "" && color != "":
		return fmt.Sprintf("Size: %s, Color: %s", size, color)
	case size != "":
		return fmt.Sprintf("Size: %s", size)
	case color != "":
		return fmt.Sprintf("Color: %s", color)
	default:
		return ""
	}
}

// toCents converts a dollar price to the smallest currency unit.
func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
