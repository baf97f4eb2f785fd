package checkout

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
)

func TestTotal(t *testing.T) {
	lines := []Line{
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	}
	assert.True(t, decimal.RequireFromString("25.00").Equal(Total(lines)))
	assert.True(t, decimal.Zero.Equal(Total(nil)))
}

func TestTotalAvoidsFloatDrift(t *testing.T) {
	lines := []Line{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.20")},
	}
	assert.Equal(t, "0.5", Total(lines).String())
}

func TestNormalizeItems(t *testing.T) {
	a, b := uuid.NewString(), uuid.NewString()

	items, err := NormalizeItems([]ItemRequest{
		{ProductID: a, Quantity: 1},
		{ProductID: b, Quantity: 2},
		{ProductID: " " + a + " ", Quantity: 4},
	}, 10)
	require.NoError(t, err)
	assert.Equal(t, []ItemRequest{{ProductID: a, Quantity: 5}, {ProductID: b, Quantity: 2}}, items)
}

func TestNormalizeItemsErrors(t *testing.T) {
	dup := uuid.NewString()
	cases := []struct {
		name  string
		items []ItemRequest
		max   int
		msg   string
	}{
		{name: "empty", items: nil, max: 10, msg: MsgItemsRequired},
		{name: "missing product", items: []ItemRequest{{Quantity: 1}}, max: 10, msg: MsgItemInvalid},
		{name: "zero quantity", items: []ItemRequest{{ProductID: uuid.NewString()}}, max: 10, msg: MsgItemInvalid},
		{name: "negative quantity", items: []ItemRequest{{ProductID: uuid.NewString(), Quantity: -2}}, max: 10, msg: MsgItemInvalid},
		{name: "quantity above int32", items: []ItemRequest{{ProductID: uuid.NewString(), Quantity: math.MaxInt32 + 1}}, max: 10, msg: MsgItemInvalid},
		{
			name:  "merged quantity overflows",
			items: []ItemRequest{{ProductID: dup, Quantity: math.MaxInt}, {ProductID: dup, Quantity: 1}},
			max:   10,
			msg:   MsgItemInvalid,
		},
		{
			name:  "merged quantity above int32",
			items: []ItemRequest{{ProductID: dup, Quantity: math.MaxInt32}, {ProductID: dup, Quantity: 1}},
			max:   10,
			msg:   MsgItemInvalid,
		},
		{
			name:  "too many distinct",
			items: []ItemRequest{{ProductID: uuid.NewString(), Quantity: 1}, {ProductID: uuid.NewString(), Quantity: 1}},
			max:   1,
			msg:   "Cart can have a maximum of 1 different products",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeItems(tc.items, tc.max)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Equal(t, tc.msg, typed.Message())
		})
	}
}

func TestNormalizeItemsMergedSumAtInt32Bound(t *testing.T) {
	id := uuid.NewString()
	items, err := NormalizeItems([]ItemRequest{{ProductID: id, Quantity: math.MaxInt32 - 1}, {ProductID: id, Quantity: 1}}, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, math.MaxInt32, items[0].Quantity)
}

func TestNormalizeItemsMergedDuplicatesCountOnce(t *testing.T) {
	id := uuid.NewString()
	items, err := NormalizeItems([]ItemRequest{{ProductID: id, Quantity: 1}, {ProductID: id, Quantity: 1}}, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}
