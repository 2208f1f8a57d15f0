// Copyright (c) 2026 Driftline. All rights reserved.

// HTTP transport layer for orders.
//
// Every order route requires an authenticated session; orders have no
// anonymous surface.
package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/driftline/driftline/internal/platform/middleware"
	requestutil "github.com/driftline/driftline/internal/platform/request"
	"github.com/driftline/driftline/internal/platform/respond"
	"github.com/driftline/driftline/internal/platform/validate"
)

// Handler holds the dependencies for order HTTP endpoints.
type Handler struct {
	orderService *Service
}

// NewHandler creates an order HTTP handler.
func NewHandler(orderService *Service) *Handler {
	return &Handler{orderService: orderService}
}

// Routes returns the router for order endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/", handler.listOrders)
		protected.Post("/finalize", handler.finalizeOrder)
		protected.Get("/{id}", handler.getOrder)
		protected.Patch("/{id}/status", handler.updateOrderStatus)
	})

	return router
}

/*
listOrders handles GET /api/v1/orders.

Returns:
  - 200: The caller's orders, newest first (empty array when none)
  - 401: No authenticated session
*/
func (handler *Handler) listOrders(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	orders, err := handler.orderService.ListForUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, orders)
}

/*
getOrder handles GET /api/v1/orders/{id}.

Returns:
  - 200: The order
  - 401: No authenticated session
  - 403: The order belongs to another user
  - 404: No order with that id
*/
func (handler *Handler) getOrder(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	orderID := requestutil.Param(request, "id")

	order, err := handler.orderService.Get(request.Context(), userID, orderID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, order)
}

// finalizeRequest is the JSON body for POST /api/v1/orders/finalize.
type finalizeRequest struct {
	SessionID string `json:"session_id"`
}

/*
finalizeOrder handles POST /api/v1/orders/finalize.

Description: Called by the success page after the processor redirects back.
Safe to call repeatedly for the same session id; the first call creates the
order and every later one returns it unchanged.

Returns:
  - 200: The finalized order
  - 400: Missing session id, or the session's payment is not completed
  - 401: No authenticated session
  - 403: The session was already finalized by a different user
  - 500: Payment processor failure
*/
func (handler *Handler) finalizeOrder(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body finalizeRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("session_id", body.SessionID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.orderService.Finalize(request.Context(), userID, body.SessionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, order)
}

// updateStatusRequest is the JSON body for PATCH /api/v1/orders/{id}/status.
type updateStatusRequest struct {
	Status         string  `json:"status"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
}

/*
updateOrderStatus handles PATCH /api/v1/orders/{id}/status.

Description: Moves the order through the fulfilment state machine. Only legal
transitions are accepted; terminal states reject every move.

Returns:
  - 200: The order with its new status
  - 400: Unknown status or illegal transition
  - 401: No authenticated session
  - 403: The order belongs to another user
  - 404: No order with that id
*/
func (handler *Handler) updateOrderStatus(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	orderID := requestutil.Param(request, "id")

	var body updateStatusRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("status", body.Status)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.orderService.AdvanceStatus(request.Context(), userID, orderID, Status(body.Status), body.TrackingNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, order)
}
