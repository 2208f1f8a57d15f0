// Copyright (c) 2026 Driftline. All rights reserved.

package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/internal/cart"
	"github.com/driftline/driftline/internal/catalog"
)

var (
	boardShorts = &catalog.Product{ID: "prod-1", Title: "Board Shorts", Price: 45.00}
	rashGuard   = &catalog.Product{ID: "prod-2", Title: "Rash Guard", Price: 30.00}
)

func TestCart_AddItem(t *testing.T) {
	t.Run("new line starts at quantity one", func(t *testing.T) {
		c := cart.New()
		c.AddItem(boardShorts, "M", "navy")

		require.Equal(t, 1, c.Len())
		item := c.Items()[0]
		assert.Equal(t, "prod-1", item.ProductID)
		assert.Equal(t, "Board Shorts", item.Title)
		assert.Equal(t, 45.00, item.UnitPrice)
		assert.Equal(t, 1, item.Quantity)
	})

	t.Run("same identity tuple increments quantity", func(t *testing.T) {
		c := cart.New()
		c.AddItem(boardShorts, "M", "navy")
		c.AddItem(boardShorts, "M", "navy")

		require.Equal(t, 1, c.Len())
		assert.Equal(t, 2, c.Items()[0].Quantity)
	})

	t.Run("different size is a separate line", func(t *testing.T) {
		c := cart.New()
		c.AddItem(boardShorts, "M", "navy")
		c.AddItem(boardShorts, "L", "navy")

		assert.Equal(t, 2, c.Len())
	})

	t.Run("different color is a separate line", func(t *testing.T) {
		c := cart.New()
		c.AddItem(boardShorts, "M", "navy")
		c.AddItem(boardShorts, "M", "coral")

		assert.Equal(t, 2, c.Len())
	})
}

func TestCart_RemoveItem(t *testing.T) {
	t.Run("removes all variants of the product", func(t *testing.T) {
		c := cart.New()
		c.AddItem(boardShorts, "M", "navy")
		c.AddItem(boardShorts, "L", "navy")
		c.AddItem(rashGuard, "M", "")

		c.RemoveItem("prod-1")

		require.Equal(t, 1, c.Len())
		assert.Equal(t, "prod-2", c.Items()[0].ProductID)
	})

	t.Run("unknown product id is a no-op", func(t *testing.T) {
		c := cart.New()
		c.AddItem(boardShorts, "M", "navy")

		c.RemoveItem("prod-missing")

		assert.Equal(t, 1, c.Len())
	})
}

func TestCart_UpdateQuantity(t *testing.T) {
	t.Run("sets quantity on every line of the product", func(t *testing.T) {
		c := cart.New()
		c.AddItem(boardShorts, "M", "navy")

		c.UpdateQuantity("prod-1", 5)

		assert.Equal(t, 5, c.Items()[0].Quantity)
	})

	t.Run("zero quantity removes the product", func(t *testing.T) {
		c := cart.New()
		c.AddItem(boardShorts, "M", "navy")

		c.UpdateQuantity("prod-1", 0)

		assert.Equal(t, 0, c.Len())
	})

	t.Run("negative quantity removes the product", func(t *testing.T) {
		c := cart.New()
		c.AddItem(boardShorts, "M", "navy")

		c.UpdateQuantity("prod-1", -3)

		assert.Equal(t, 0, c.Len())
	})
}

func TestCart_DerivedTotals(t *testing.T) {
	c := cart.New()
	c.AddItem(boardShorts, "M", "navy")
	c.AddItem(boardShorts, "M", "navy")
	c.AddItem(rashGuard, "M", "")

	assert.Equal(t, 3, c.TotalItems())
	assert.Equal(t, 120.00, c.TotalPrice())

	c.Clear()

	assert.Equal(t, 0, c.TotalItems())
	assert.Equal(t, 0.0, c.TotalPrice())
}

func TestCart_SnapshotLoad(t *testing.T) {
	t.Run("round trip preserves lines and totals", func(t *testing.T) {
		c := cart.New()
		c.AddItem(boardShorts, "M", "navy")
		c.AddItem(rashGuard, "S", "white")
		c.UpdateQuantity("prod-2", 2)

		data, err := c.Snapshot()
		require.NoError(t, err)

		restored := cart.Load(data)

		assert.Equal(t, c.Items(), restored.Items())
		assert.Equal(t, c.TotalItems(), restored.TotalItems())
		assert.Equal(t, c.TotalPrice(), restored.TotalPrice())
	})

	t.Run("corrupt snapshot yields an empty cart", func(t *testing.T) {
		restored := cart.Load([]byte(`{"not": "a cart`))

		assert.Equal(t, 0, restored.Len())
	})

	t.Run("empty input yields an empty cart", func(t *testing.T) {
		assert.Equal(t, 0, cart.Load(nil).Len())
		assert.Equal(t, 0, cart.Load([]byte{}).Len())
	})
}
