// Copyright (c) 2026 Driftline. All rights reserved.

/*
Package catalog provides read access to the product catalogue.

Products and collections are authored through an out-of-band merchandising
pipeline and are read-only from the storefront's point of view. The package
exposes browse endpoints for clients and product lookups for checkout, which
must always resolve live prices rather than trusting client-submitted ones.
*/
package catalog

import "time"

// # Domain Entities

// Product is a single sellable item.
type Product struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	ImageURL     string    `json:"image_url"`
	Sizes        []string  `json:"sizes"`
	Colors       []string  `json:"colors"`
	InStock      bool      `json:"in_stock"`
	CollectionID *string   `json:"collection_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Collection is a curated grouping of products.
type Collection struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
