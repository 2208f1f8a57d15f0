// Copyright (c) 2026 Driftline. All rights reserved.

/*
Package cart implements the client-held shopping cart state machine.

The cart is the customer's local selection of catalog items. It performs no
network calls of its own: the owning client persists it (browser storage, or
any durable bytes) via the [Cart.Snapshot]/[Load] codec, and the server only
ever sees its contents when they are submitted to checkout.

# Line Identity

A line is identified by the tuple (ProductID, Size, Color). Adding the same
tuple again increments quantity instead of duplicating the line. Removal is
product-wide: all size/color variants of a product id go at once.

# Derived Values

TotalItems and TotalPrice are computed from the lines on every call and never
stored, so they cannot drift from the line items.
*/
package cart

import (
	"encoding/json"

	"github.com/driftline/driftline/internal/catalog"
)

// Item is a single cart line.
//
// UnitPrice is the catalog price captured when the line was added; checkout
// re-resolves live prices server-side, so a stale UnitPrice here affects only
// the client-side total display, never the charge.
type Item struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// Cart is an ordered collection of selected items.
//
// # Concurrency
//
// Cart is single-writer state; it is not safe for concurrent use.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem adds one unit of the product in the given size/color variant.
//
// If a line with the same (ProductID, Size, Color) identity already exists,
// its quantity is incremented; otherwise a new line with quantity 1 is
// appended, snapshotting the product's current title and price.
func (c *Cart) AddItem(product *catalog.Product, size, color string) {
	for i := range c.items {
		if c.items[i].ProductID == product.ID && c.items[i].Size == size && c.items[i].Color == color {
			c.items[i].Quantity++
			return
		}
	}

	c.items = append(c.items, Item{
		ProductID: product.ID,
		Title:     product.Title,
		UnitPrice: product.Price,
		Quantity:  1,
		Size:      size,
		Color:     color,
	})
}

// RemoveItem removes every line for the given product id, regardless of
// size/color variant. Product-wide removal is a deliberate simplification.
func (c *Cart) RemoveItem(productID string) {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// UpdateQuantity sets the quantity for every line of the given product id.
// A quantity of zero or less is equivalent to [Cart.RemoveItem].
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// TotalItems returns the sum of line quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum over lines of unit price times quantity.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, item := range c.items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// # Persistence Codec

// Snapshot serializes the cart lines for durable client-side storage.
func (c *Cart) Snapshot() ([]byte, error) {
	return json.Marshal(c.items)
}

// Load reconstructs a cart from a stored snapshot.
//
// Corrupt or unparseable data yields an empty cart, never an error: a broken
// snapshot is not worth failing a page load over.
func Load(data []byte) *Cart {
	if len(data) == 0 {
		return New()
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return New()
	}

	return &Cart{items: items}
}
