package domain

import (
	"encoding/json"
	"fmt"
)

// EncodeItems serializes line items into the persisted cart payload, a JSON
// array of line items.
func EncodeItems(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal cart items: %w", err)
	}
	return data, nil
}

// DecodeItems parses a persisted cart payload. Anything that is not a JSON
// array of line items yields an error and no items.
func DecodeItems(payload []byte) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart items: %w", err)
	}
	if items == nil {
		return []LineItem{}, nil
	}
	return items, nil
}
