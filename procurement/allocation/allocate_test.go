package allocation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func stockLine(qty, price string) RequestLine {
	return RequestLine{
		ID:          "L1",
		ProductID:   "P-100",
		ProductName: "Steel bracket",
		Quantity:    d(qty),
		Unit:        "pcs",
		UnitPrice:   d(price),
		TotalPrice:  d(qty).Mul(d(price)),
		SourceType:  SourceStockPick,
	}
}

func twoWarehouses() []WarehouseStockEntry {
	return []WarehouseStockEntry{
		{WarehouseID: "WH-A", WarehouseName: "Main", AvailableQuantity: d("60"), UnitPrice: d("10")},
		{WarehouseID: "WH-B", WarehouseName: "Annex", AvailableQuantity: d("50"), UnitPrice: d("12")},
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s: want %s, got %s", msg, want, got.String())
}

func TestAllocate_BothWarehousesCoverRequest(t *testing.T) {
	res, err := Allocate(Input{
		Line:      stockLine("100", "11"),
		Selected:  []string{"WH-A", "WH-B"},
		Breakdown: twoWarehouses(),
	})
	require.NoError(t, err)

	assert.Equal(t, Covered, res.State)
	assert.Nil(t, res.Split)
	assertDecimal(t, "100", res.Parent.Quantity, "parent quantity")
	assertDecimal(t, "10.8", res.Parent.UnitPrice, "weighted unit price")
	assertDecimal(t, "1080", res.Parent.TotalPrice, "total price")
	require.Len(t, res.Allocations, 2)
	assertDecimal(t, "60", res.Allocations[0].Quantity, "WH-A draw")
	assertDecimal(t, "40", res.Allocations[1].Quantity, "WH-B draw")
	assert.False(t, res.Incomplete())
}

func TestAllocate_ShortfallProducesSplit(t *testing.T) {
	res, err := Allocate(Input{
		Line:      stockLine("100", "11"),
		Selected:  []string{"WH-A"},
		Breakdown: twoWarehouses(),
	})
	require.NoError(t, err)

	assert.Equal(t, Partial, res.State)
	assertDecimal(t, "60", res.Parent.Quantity, "parent quantity")
	assertDecimal(t, "10", res.Parent.UnitPrice, "parent unit price")
	assertDecimal(t, "600", res.Parent.TotalPrice, "parent total")
	assertDecimal(t, "40", res.Shortfall, "shortfall")

	require.NotNil(t, res.Split)
	assert.Equal(t, "split-L1", res.Split.ID)
	assert.Equal(t, "L1", res.Split.ParentID)
	assert.Equal(t, SourcePurchase, res.Split.SourceType)
	assertDecimal(t, "40", res.Split.Quantity, "split quantity")
	assertDecimal(t, "11", res.Split.UnitPrice, "split keeps original unit price")
	assertDecimal(t, "440", res.Split.TotalPrice, "split total")
}

func TestAllocate_OverrideOnlyTouchesSplit(t *testing.T) {
	base := Input{
		Line:      stockLine("100", "11"),
		Selected:  []string{"WH-A"},
		Breakdown: twoWarehouses(),
	}
	without, err := Allocate(base)
	require.NoError(t, err)

	for _, o := range []string{"1", "40", "55", "1000"} {
		in := base
		in.Override = dp(o)
		res, err := Allocate(in)
		require.NoError(t, err)
		require.NotNil(t, res.Split)

		assertDecimal(t, "60", res.Parent.Quantity, "parent quantity with override "+o)
		assert.True(t, without.Parent.UnitPrice.Equal(res.Parent.UnitPrice))
		assertDecimal(t, o, res.Split.Quantity, "split quantity")
		assertDecimal(t, d(o).Mul(d("11")).String(), res.Split.TotalPrice, "split total")
	}
}

func TestAllocate_NoSelectionIsIncomplete(t *testing.T) {
	line := stockLine("50", "10")
	res, err := Allocate(Input{
		Line:      line,
		Breakdown: []WarehouseStockEntry{{WarehouseID: "WH-A", AvailableQuantity: d("0"), UnitPrice: d("10")}},
	})
	require.NoError(t, err)

	assert.True(t, res.Incomplete())
	assert.Equal(t, line, res.Parent)
	assert.Nil(t, res.Split)
	assert.Empty(t, res.Allocations)
}

func TestAllocate_UnchangedCases(t *testing.T) {
	cases := map[string]Input{
		"zero quantity": {
			Line: stockLine("0", "10"), Selected: []string{"WH-A"}, Breakdown: twoWarehouses(),
		},
		"empty breakdown": {
			Line: stockLine("10", "10"), Selected: []string{"WH-A"},
		},
		"selected warehouse has no stock": {
			Line:     stockLine("10", "10"),
			Selected: []string{"WH-A"},
			Breakdown: []WarehouseStockEntry{
				{WarehouseID: "WH-A", AvailableQuantity: d("0"), UnitPrice: d("9")},
				{WarehouseID: "WH-B", AvailableQuantity: d("30"), UnitPrice: d("9")},
			},
		},
		"selection not in breakdown": {
			Line: stockLine("10", "10"), Selected: []string{"WH-Z"}, Breakdown: twoWarehouses(),
		},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := Allocate(in)
			require.NoError(t, err)
			assert.Equal(t, NotAllocated, res.State)
			assert.Equal(t, in.Line, res.Parent)
			assert.Nil(t, res.Split)
		})
	}
}

func TestAllocate_BreakdownOrderWinsOverSelectionOrder(t *testing.T) {
	in := Input{
		Line:      stockLine("70", "11"),
		Selected:  []string{"WH-B", "WH-A"},
		Breakdown: twoWarehouses(),
	}
	res, err := Allocate(in)
	require.NoError(t, err)

	require.Len(t, res.Allocations, 2)
	assert.Equal(t, "WH-A", res.Allocations[0].WarehouseID)
	assertDecimal(t, "60", res.Allocations[0].Quantity, "WH-A first")
	assertDecimal(t, "10", res.Allocations[1].Quantity, "WH-B remainder")
}

func TestAllocate_DeselectRemovesSplit(t *testing.T) {
	in := Input{Line: stockLine("100", "11"), Selected: []string{"WH-A"}, Breakdown: twoWarehouses()}
	res, err := Allocate(in)
	require.NoError(t, err)
	require.NotNil(t, res.Split)

	in.Selected = []string{"WH-A", "WH-B"}
	res, err = Allocate(in)
	require.NoError(t, err)
	assert.Nil(t, res.Split)

	in.Selected = nil
	res, err = Allocate(in)
	require.NoError(t, err)
	assert.Nil(t, res.Split)
}

func TestAllocate_NonStockSourcesBypass(t *testing.T) {
	for _, src := range []SourceType{SourcePurchase, SourceOperational, SourceServicePurchase, SourceServiceInternal} {
		line := stockLine("10", "5")
		line.SourceType = src
		res, err := Allocate(Input{Line: line, Selected: []string{"WH-A"}, Breakdown: twoWarehouses()})
		require.NoError(t, err)
		assert.Equal(t, Bypassed, res.State, src)
		assert.Equal(t, line, res.Parent)
	}

	// a STOCK_PICK line overridden to PURCHASE skips the calculator too
	res, err := Allocate(Input{
		Line:            stockLine("10", "5"),
		EffectiveSource: SourcePurchase,
		Selected:        []string{"WH-A"},
		Breakdown:       twoWarehouses(),
	})
	require.NoError(t, err)
	assert.Equal(t, Bypassed, res.State)
	assert.Empty(t, res.Allocations)
}

func TestAllocate_InvalidQuantity(t *testing.T) {
	_, err := Allocate(Input{Line: stockLine("-1", "10"), Selected: []string{"WH-A"}, Breakdown: twoWarehouses()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidQuantity))

	var qe *InvalidQuantityError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "quantity", qe.Field)

	_, err = Allocate(Input{
		Line: stockLine("100", "10"), Selected: []string{"WH-A"}, Breakdown: twoWarehouses(), Override: dp("-5"),
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAllocate_SplitNote(t *testing.T) {
	in := Input{Line: stockLine("100", "11"), Selected: []string{"WH-A"}, Breakdown: twoWarehouses()}
	res, err := Allocate(in)
	require.NoError(t, err)
	assert.Equal(t, "Shortfall of 40 pcs not covered by stock", res.Split.Note)

	in.Override = dp("55")
	res, err = Allocate(in)
	require.NoError(t, err)
	assert.Equal(t, "Purchase of 55 pcs (shortfall 40 pcs)", res.Split.Note)
	assertDecimal(t, "40", res.Shortfall, "shortfall unchanged by override")
}

func TestAllocate_Idempotent(t *testing.T) {
	in := Input{Line: stockLine("100", "11"), Selected: []string{"WH-A"}, Breakdown: twoWarehouses(), Override: dp("55")}
	first, err1 := Allocate(in)
	second, err2 := Allocate(in)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestTotalStock(t *testing.T) {
	assertDecimal(t, "110", TotalStock(twoWarehouses()), "total")
	assertDecimal(t, "5", TotalStock([]WarehouseStockEntry{
		{AvailableQuantity: d("-3")}, {AvailableQuantity: d("5")},
	}), "negative entries ignored")
}
