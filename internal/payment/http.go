// Copyright (c) 2026 Driftline. All rights reserved.

// HTTP transport layer for checkout.
package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/driftline/driftline/internal/platform/request"
	"github.com/driftline/driftline/internal/platform/respond"
)

// Handler holds the dependencies for checkout HTTP endpoints.
type Handler struct {
	checkoutService *Service
}

// NewHandler creates a checkout HTTP handler.
func NewHandler(checkoutService *Service) *Handler {
	return &Handler{checkoutService: checkoutService}
}

// Routes returns the router for checkout endpoints.
//
// Checkout is deliberately public: guests can pay without an account, they
// just will not get a queryable order afterwards.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.createCheckoutSession)

	return router
}

// checkoutRequest is the JSON body for POST /api/v1/checkout.
type checkoutRequest struct {
	Items []CheckoutLine `json:"items"`
}

// checkoutResponse carries the hosted payment page URL back to the client.
type checkoutResponse struct {
	URL string `json:"url"`
}

/*
createCheckoutSession handles POST /api/v1/checkout.

Description: Accepts the client's cart lines, opens a hosted payment session
and returns the redirect URL. The client is expected to navigate the customer
to that URL immediately.

Returns:
  - 200: {"url": "..."} redirect target
  - 400: Empty cart, non-positive quantity, or malformed JSON
  - 404: A submitted product id no longer exists
  - 500: Payment processor failure
*/
func (handler *Handler) createCheckoutSession(writer http.ResponseWriter, request *http.Request) {
	var body checkoutRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	url, err := handler.checkoutService.CreateCheckoutSession(request.Context(), body.Items)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, checkoutResponse{URL: url})
}
