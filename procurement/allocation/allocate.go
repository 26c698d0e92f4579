// Package allocation computes how a stock-pick request line is covered by
// the warehouses a verifier selected, and what has to be bought for the rest.
//
// Everything here is a pure function of its input. The verification session
// owns selections and overrides; this package never holds them.
package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Allocate draws the requested quantity from the selected warehouses in
// breakdown order and returns the adjusted parent line plus, when stock
// falls short, a purchase line for the remainder.
func Allocate(in Input) (Result, error) {
	line := in.Line
	res := Result{
		Parent:         line,
		TotalAllocated: decimal.Zero,
		Shortfall:      decimal.Zero,
		State:          NotAllocated,
	}

	if line.Quantity.IsNegative() {
		return res, &InvalidQuantityError{LineID: line.ID, Field: "quantity", Value: line.Quantity.String()}
	}
	if in.Override != nil && in.Override.IsNegative() {
		return res, &InvalidQuantityError{LineID: line.ID, Field: "override", Value: in.Override.String()}
	}

	if in.source() != SourceStockPick {
		res.State = Bypassed
		return res, nil
	}
	if line.Quantity.IsZero() || len(in.Selected) == 0 || len(in.Breakdown) == 0 {
		return res, nil
	}

	remaining := line.Quantity
	totalCost := decimal.Zero
	totalAllocated := decimal.Zero
	var drawn []WarehouseAllocation

	for _, entry := range in.Breakdown {
		if !remaining.IsPositive() {
			break
		}
		if !slices.Contains(in.Selected, entry.WarehouseID) {
			continue
		}
		take := decimal.Min(remaining, entry.AvailableQuantity)
		if !take.IsPositive() {
			continue
		}
		cost := take.Mul(entry.UnitPrice)
		totalCost = totalCost.Add(cost)
		totalAllocated = totalAllocated.Add(take)
		remaining = remaining.Sub(take)
		drawn = append(drawn, WarehouseAllocation{
			WarehouseID:   entry.WarehouseID,
			WarehouseName: entry.WarehouseName,
			Quantity:      take,
			UnitPrice:     entry.UnitPrice,
			TotalPrice:    cost,
		})
	}

	if totalAllocated.IsZero() {
		return res, nil
	}

	res.Allocations = drawn
	res.TotalAllocated = totalAllocated
	res.Parent.Quantity = totalAllocated
	res.Parent.UnitPrice = totalCost.Div(totalAllocated)
	res.Parent.TotalPrice = totalCost

	if totalAllocated.GreaterThanOrEqual(line.Quantity) {
		res.State = Covered
		return res, nil
	}

	res.State = Partial
	res.Shortfall = line.Quantity.Sub(totalAllocated)
	res.Split = newSplit(line, res.Shortfall, in.Override)
	return res, nil
}

func newSplit(parent RequestLine, shortfall decimal.Decimal, override *decimal.Decimal) *SplitLine {
	qty := shortfall
	note := fmt.Sprintf("Shortfall of %s %s not covered by stock", shortfall.String(), parent.Unit)
	if override != nil {
		qty = *override
		note = fmt.Sprintf("Purchase of %s %s (shortfall %s %s)", qty.String(), parent.Unit, shortfall.String(), parent.Unit)
	}
	return &SplitLine{
		ParentID: parent.ID,
		RequestLine: RequestLine{
			ID:          SplitIDPrefix + parent.ID,
			ProductID:   parent.ProductID,
			ProductName: parent.ProductName,
			Quantity:    qty,
			Unit:        parent.Unit,
			UnitPrice:   parent.UnitPrice,
			TotalPrice:  parent.UnitPrice.Mul(qty),
			SourceType:  SourcePurchase,
			Note:        note,
		},
	}
}
