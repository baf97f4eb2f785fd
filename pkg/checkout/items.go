package checkout

import (
	"fmt"
	"math"
	"strings"

	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
)

const (
	MsgItemsRequired   = "Items are required and must be a non-empty array"
	MsgItemInvalid     = "Each item must have productId and quantity (greater than 0)"
	MsgProductsMissing = "One or more products not found"
)

// ItemRequest is a requested cart line before products are resolved.
type ItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// NormalizeItems validates requested lines and merges repeated product ids by
// summing their quantities. Order of first appearance is preserved. Quantities
// and merged sums must fit the int32 quantity column.
func NormalizeItems(items []ItemRequest, maxDistinct int) ([]ItemRequest, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgItemsRequired)
	}

	merged := make([]ItemRequest, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ProductID)
		if id == "" || item.Quantity <= 0 || item.Quantity > math.MaxInt32 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgItemInvalid)
		}
		key := strings.ToLower(id)
		if pos, ok := index[key]; ok {
			if merged[pos].Quantity > math.MaxInt32-item.Quantity {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgItemInvalid)
			}
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, ItemRequest{ProductID: id, Quantity: item.Quantity})
	}

	if maxDistinct > 0 && len(merged) > maxDistinct {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Cart can have a maximum of %d different products", maxDistinct))
	}
	return merged, nil
}
