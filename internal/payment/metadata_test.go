// Copyright (c) 2026 Driftline. All rights reserved.

package payment_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/internal/catalog"
	"github.com/driftline/driftline/internal/payment"
)

// bigSnapshot builds a cart whose JSON is far past one metadata value.
func bigSnapshot(lines int) []payment.CheckoutItem {
	items := make([]payment.CheckoutItem, 0, lines)
	for i := 0; i < lines; i++ {
		items = append(items, payment.CheckoutItem{
			ProductID: fmt.Sprintf("prod-%02d", i),
			Title:     fmt.Sprintf("Séance Springsuit Limited Colourway %02d", i),
			UnitPrice: 129.00,
			Quantity:  i + 1,
			Size:      "M",
			Color:     "black",
		})
	}
	return items
}

func TestEncodeItemsMetadata(t *testing.T) {
	t.Run("small snapshots stay in a single key", func(t *testing.T) {
		metadata, err := payment.EncodeItemsMetadata(bigSnapshot(2))

		require.NoError(t, err)
		require.Len(t, metadata, 1)
		assert.Contains(t, metadata, payment.MetadataItemsKey)
	})

	t.Run("large snapshots chunk under the per-value cap", func(t *testing.T) {
		metadata, err := payment.EncodeItemsMetadata(bigSnapshot(12))

		require.NoError(t, err)
		require.Greater(t, len(metadata), 1)
		assert.Contains(t, metadata, payment.MetadataItemsKey)
		assert.Contains(t, metadata, payment.MetadataItemsKey+"_1")

		for key, value := range metadata {
			assert.LessOrEqualf(t, len([]rune(value)), 500, "metadata value %q over the processor cap", key)
			// Chunking must not split a multi-byte rune across values.
			assert.Truef(t, utf8.ValidString(value), "metadata value %q is not valid UTF-8", key)
		}
	})

	t.Run("chunked snapshots decode back to the same lines", func(t *testing.T) {
		items := bigSnapshot(12)

		metadata, err := payment.EncodeItemsMetadata(items)
		require.NoError(t, err)

		decoded, err := payment.DecodeItemsMetadata(metadata)
		require.NoError(t, err)
		assert.Equal(t, items, decoded)
	})
}

func TestDecodeItemsMetadata(t *testing.T) {
	t.Run("absent snapshot yields no lines", func(t *testing.T) {
		items, err := payment.DecodeItemsMetadata(nil)

		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("corrupt snapshot is an error", func(t *testing.T) {
		_, err := payment.DecodeItemsMetadata(map[string]string{
			payment.MetadataItemsKey: `[{"product_id": "prod-1"`,
		})

		assert.Error(t, err)
	})

	t.Run("continuation keys are reassembled in order", func(t *testing.T) {
		raw := `[{"product_id":"prod-1","title":"Board Shorts","unit_price":45,"quantity":2,"size":"M","color":"navy"}]`
		split := len(raw) / 2

		items, err := payment.DecodeItemsMetadata(map[string]string{
			payment.MetadataItemsKey:        raw[:split],
			payment.MetadataItemsKey + "_1": raw[split:],
		})

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "prod-1", items[0].ProductID)
		assert.Equal(t, 2, items[0].Quantity)
	})
}

/*
TestService_CreateCheckoutSession_LargeCart pins that a cart big enough to
blow the single-value limit still opens a session, with the snapshot spread
across continuation keys.
*/
func TestService_CreateCheckoutSession_LargeCart(t *testing.T) {
	store := &fakeCatalog{products: map[string]*catalog.Product{}}
	lines := make([]payment.CheckoutLine, 0, 10)
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("prod-%02d", i)
		store.products[id] = &catalog.Product{
			ID:    id,
			Title: "Limited Colourway " + strings.Repeat("Drift ", 8) + fmt.Sprintf("%02d", i),
			Price: 129.00,
		}
		lines = append(lines, payment.CheckoutLine{ProductID: id, Quantity: 1, Size: "M"})
	}

	processor := &fakeProcessor{session: &payment.CheckoutSession{ID: "cs_1", URL: "https://pay.example/cs_1"}}
	service := payment.NewService(processor, store, "https://driftline.shop")

	_, err := service.CreateCheckoutSession(context.Background(), lines)
	require.NoError(t, err)

	require.Greater(t, len(processor.lastInput.Metadata), 1)
	for key, value := range processor.lastInput.Metadata {
		assert.LessOrEqualf(t, len([]rune(value)), 500, "metadata value %q over the processor cap", key)
	}

	decoded, err := payment.DecodeItemsMetadata(processor.lastInput.Metadata)
	require.NoError(t, err)
	assert.Len(t, decoded, 10)
}
