// Copyright (c) 2026 Driftline. All rights reserved.

// HTTP transport layer for cart snapshot sync.
//
// These routes only mirror client-held state. Clients generate an opaque
// cart id (a UUID), PUT the full snapshot after each local mutation, and GET
// it back when they land on a fresh device or empty storage. Knowledge of
// the id is the only access control, matching the anonymity of the cart
// itself.
package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/driftline/driftline/internal/platform/request"
	"github.com/driftline/driftline/internal/platform/respond"
	"github.com/driftline/driftline/internal/platform/validate"
)

// Handler holds the dependencies for cart HTTP endpoints.
type Handler struct {
	cartStore Store
}

// NewHandler creates a cart HTTP handler backed by the given snapshot store.
func NewHandler(cartStore Store) *Handler {
	return &Handler{cartStore: cartStore}
}

// Routes returns the router for cart endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{cartID}", handler.getCart)
	router.Put("/{cartID}", handler.putCart)

	return router
}

// cartPayload is the wire shape for both directions of the sync.
type cartPayload struct {
	Items      []Item  `json:"items"`
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}

func toPayload(cart *Cart) cartPayload {
	return cartPayload{
		Items:      cart.Items(),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
}

/*
getCart handles GET /api/v1/cart/{cartID}.

Returns:
  - 200: The stored snapshot, or an empty cart for an unknown id
  - 400: Malformed cart id
*/
func (handler *Handler) getCart(writer http.ResponseWriter, request *http.Request) {
	cartID := requestutil.Param(request, "cartID")

	validator := &validate.Validator{}
	validator.UUID("cart_id", cartID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	cart, err := handler.cartStore.Load(request.Context(), cartID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, toPayload(cart))
}

// putCartRequest is the JSON body for PUT /api/v1/cart/{cartID}.
type putCartRequest struct {
	Items []Item `json:"items"`
}

/*
putCart handles PUT /api/v1/cart/{cartID}.

Description: Replaces the stored snapshot wholesale. The derived totals in
the response are recomputed server-side, so a client can use them to detect
drift in its own arithmetic.

Returns:
  - 200: The stored snapshot with recomputed totals
  - 400: Malformed cart id or JSON
*/
func (handler *Handler) putCart(writer http.ResponseWriter, request *http.Request) {
	cartID := requestutil.Param(request, "cartID")

	validator := &validate.Validator{}
	validator.UUID("cart_id", cartID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body putCartRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	cart := &Cart{items: body.Items}

	if err := handler.cartStore.Save(request.Context(), cartID, cart); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, toPayload(cart))
}
