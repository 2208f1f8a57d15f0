// Copyright (c) 2026 Driftline. All rights reserved.

package payment

import (
	"encoding/json"
	"fmt"
)

// metadataValueLimit is the processor's cap on a single metadata value
// (Stripe rejects values over 500 characters). Snapshots larger than one
// value are split across numbered continuation keys.
const metadataValueLimit = 500

// itemsChunkKey names the metadata key for the nth snapshot chunk. The first
// chunk keeps the plain key so single-chunk snapshots stay readable.
func itemsChunkKey(index int) string {
	if index == 0 {
		return MetadataItemsKey
	}
	return fmt.Sprintf("%s_%d", MetadataItemsKey, index)
}

/*
EncodeItemsMetadata serializes the purchase snapshot into session metadata.

Description: The JSON is chunked on rune boundaries so no value exceeds the
processor's per-value limit. A cart of a handful of lines fits in one key;
bigger carts spill into "items_1", "items_2" and so on.

Parameters:
  - items: []CheckoutItem

Returns:
  - map[string]string: Metadata entries to attach to the session
  - error: Serialization failures
*/
func EncodeItemsMetadata(items []CheckoutItem) (map[string]string, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("payment_items_metadata_encode_failed: %w", err)
	}

	runes := []rune(string(raw))
	metadata := make(map[string]string)

	for index := 0; index*metadataValueLimit < len(runes); index++ {
		start := index * metadataValueLimit
		end := start + metadataValueLimit
		if end > len(runes) {
			end = len(runes)
		}
		metadata[itemsChunkKey(index)] = string(runes[start:end])
	}

	return metadata, nil
}

/*
DecodeItemsMetadata reassembles the snapshot written by [EncodeItemsMetadata].

Description: An absent snapshot yields an empty line list rather than an
error; the payment already settled, so the order must still be recorded.

Parameters:
  - metadata: map[string]string (session metadata, possibly nil)

Returns:
  - []CheckoutItem: The purchased lines (possibly empty)
  - error: Corrupt snapshot JSON
*/
func DecodeItemsMetadata(metadata map[string]string) ([]CheckoutItem, error) {
	raw := metadata[MetadataItemsKey]
	if raw == "" {
		return []CheckoutItem{}, nil
	}

	for index := 1; ; index++ {
		chunk, ok := metadata[itemsChunkKey(index)]
		if !ok {
			break
		}
		raw += chunk
	}

	var items []CheckoutItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("payment_items_metadata_decode_failed: %w", err)
	}
	return items, nil
}
