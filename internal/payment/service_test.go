// Copyright (c) 2026 Driftline. All rights reserved.

package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/internal/catalog"
	"github.com/driftline/driftline/internal/payment"
	"github.com/driftline/driftline/internal/platform/apperr"
)

// fakeProcessor records the session input and returns a canned session.
type fakeProcessor struct {
	lastInput payment.CreateSessionInput
	session   *payment.CheckoutSession
	err       error
}

func (f *fakeProcessor) CreateSession(_ context.Context, input payment.CreateSessionInput) (*payment.CheckoutSession, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeProcessor) GetSession(_ context.Context, _ string) (*payment.CheckoutSession, error) {
	return f.session, f.err
}

// fakeCatalog resolves products from an in-memory map.
type fakeCatalog struct {
	products map[string]*catalog.Product
}

func (f *fakeCatalog) FindProductByID(_ context.Context, id string) (*catalog.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	return product, nil
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]*catalog.Product{
		"prod-1": {ID: "prod-1", Title: "Board Shorts", Price: 45.00, ImageURL: "https://cdn.driftline.shop/shorts.jpg"},
		"prod-2": {ID: "prod-2", Title: "Rash Guard", Price: 29.99},
	}}
}

func TestService_CreateCheckoutSession(t *testing.T) {
	ctx := context.Background()

	t.Run("builds session from live catalogue prices", func(t *testing.T) {
		processor := &fakeProcessor{session: &payment.CheckoutSession{ID: "cs_1", URL: "https://pay.example/cs_1"}}
		service := payment.NewService(processor, newFakeCatalog(), "https://driftline.shop")

		url, err := service.CreateCheckoutSession(ctx, []payment.CheckoutLine{
			{ProductID: "prod-1", Quantity: 2, Size: "M", Color: "navy"},
			{ProductID: "prod-2", Quantity: 1},
		})

		require.NoError(t, err)
		assert.Equal(t, "https://pay.example/cs_1", url)

		require.Len(t, processor.lastInput.Lines, 2)
		first := processor.lastInput.Lines[0]
		assert.Equal(t, "Board Shorts", first.Name)
		assert.Equal(t, "Size: M, Color: navy", first.Description)
		assert.Equal(t, int64(4500), first.UnitAmount)
		assert.Equal(t, int64(2), first.Quantity)

		// 29.99 must round to 2999, not truncate to 2998.
		assert.Equal(t, int64(2999), processor.lastInput.Lines[1].UnitAmount)

		assert.Equal(t, "https://driftline.shop/checkout/success?session_id={CHECKOUT_SESSION_ID}", processor.lastInput.SuccessURL)
		assert.Equal(t, "https://driftline.shop/cart", processor.lastInput.CancelURL)
	})

	t.Run("snapshots resolved lines into metadata", func(t *testing.T) {
		processor := &fakeProcessor{session: &payment.CheckoutSession{ID: "cs_1", URL: "https://pay.example/cs_1"}}
		service := payment.NewService(processor, newFakeCatalog(), "https://driftline.shop")

		_, err := service.CreateCheckoutSession(ctx, []payment.CheckoutLine{
			{ProductID: "prod-1", Quantity: 2, Size: "M", Color: "navy"},
		})
		require.NoError(t, err)

		raw, ok := processor.lastInput.Metadata[payment.MetadataItemsKey]
		require.True(t, ok)

		var items []payment.CheckoutItem
		require.NoError(t, json.Unmarshal([]byte(raw), &items))
		require.Len(t, items, 1)
		assert.Equal(t, payment.CheckoutItem{
			ProductID: "prod-1",
			Title:     "Board Shorts",
			UnitPrice: 45.00,
			Quantity:  2,
			Size:      "M",
			Color:     "navy",
		}, items[0])
	})

	t.Run("empty cart is a validation error", func(t *testing.T) {
		service := payment.NewService(&fakeProcessor{}, newFakeCatalog(), "https://driftline.shop")

		_, err := service.CreateCheckoutSession(ctx, nil)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})

	t.Run("non-positive quantity is a validation error", func(t *testing.T) {
		service := payment.NewService(&fakeProcessor{}, newFakeCatalog(), "https://driftline.shop")

		_, err := service.CreateCheckoutSession(ctx, []payment.CheckoutLine{
			{ProductID: "prod-1", Quantity: 0},
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})

	t.Run("unknown product surfaces as not found", func(t *testing.T) {
		service := payment.NewService(&fakeProcessor{}, newFakeCatalog(), "https://driftline.shop")

		_, err := service.CreateCheckoutSession(ctx, []payment.CheckoutLine{
			{ProductID: "prod-gone", Quantity: 1},
		})

		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("processor failure maps to payment session error", func(t *testing.T) {
		processor := &fakeProcessor{err: errors.New("stripe down")}
		service := payment.NewService(processor, newFakeCatalog(), "https://driftline.shop")

		_, err := service.CreateCheckoutSession(ctx, []payment.CheckoutLine{
			{ProductID: "prod-1", Quantity: 1},
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "PAYMENT_SESSION_ERROR", appError.Code)
		// The processor detail stays in the hidden cause, not the client message.
		assert.NotContains(t, appError.Message, "stripe")
	})
}
