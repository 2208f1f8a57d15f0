// Copyright (c) 2026 Driftline. All rights reserved.

// HTTP transport layer for the product catalogue.
//
// All catalogue routes are public: browsing never requires a session.
package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/driftline/driftline/internal/platform/request"
	"github.com/driftline/driftline/internal/platform/respond"
	"github.com/driftline/driftline/pkg/pagination"
)

// Handler holds the dependencies for catalogue HTTP endpoints.
type Handler struct {
	catalogStore Store
}

// NewHandler creates a catalogue HTTP handler backed by the given store.
func NewHandler(catalogStore Store) *Handler {
	return &Handler{catalogStore: catalogStore}
}

// Routes returns the router for catalogue endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/products", handler.listProducts)
	router.Get("/products/{slug}", handler.getProduct)
	router.Get("/collections", handler.listCollections)
	router.Get("/collections/{slug}", handler.getCollection)

	return router
}

/*
listProducts handles GET /api/v1/products.

Description: Returns a paginated page of products, newest first. The optional
"collection" query parameter restricts results to a single collection slug.

Query Parameters:
  - page: int (1-indexed)
  - limit: int (clamped to the shared maximum)
  - collection: string (collection slug, optional)
*/
func (handler *Handler) listProducts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	collectionSlug := request.URL.Query().Get("collection")

	products, total, err := handler.catalogStore.ListProducts(request.Context(), collectionSlug, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
getProduct handles GET /api/v1/products/{slug}.

Returns:
  - 200: The product
  - 404: No product with that slug
*/
func (handler *Handler) getProduct(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	product, err := handler.catalogStore.FindProductBySlug(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
listCollections handles GET /api/v1/collections.

Returns every collection; the set is small enough that pagination would be
ceremony.
*/
func (handler *Handler) listCollections(writer http.ResponseWriter, request *http.Request) {
	collections, err := handler.catalogStore.ListCollections(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, collections)
}

/*
getCollection handles GET /api/v1/collections/{slug}.

Returns:
  - 200: The collection
  - 404: No collection with that slug
*/
func (handler *Handler) getCollection(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	collection, err := handler.catalogStore.FindCollectionBySlug(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, collection)
}
