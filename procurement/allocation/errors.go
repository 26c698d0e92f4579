package allocation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrIncompleteAllocation = errors.New("incomplete allocation")
	ErrStockFetch           = errors.New("stock fetch failed")
)

type InvalidQuantityError struct {
	LineID string
	Field  string
	Value  string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("line %s: invalid %s %s", e.LineID, e.Field, e.Value)
}

func (e *InvalidQuantityError) Unwrap() error { return ErrInvalidQuantity }

// IncompleteAllocationError names every line that blocks an approval.
type IncompleteAllocationError struct {
	Lines []BlockedLine
}

type BlockedLine struct {
	LineID      string `json:"line_id"`
	ProductName string `json:"product_name"`
	Reason      string `json:"reason"`
}

const (
	ReasonNoWarehouse       = "no warehouse selected"
	ReasonInsufficientStock = "requested quantity exceeds available stock"
	ReasonSelectedNoStock   = "selected warehouses have no stock"
	ReasonNoStockData       = "stock data unavailable"
	ReasonInvalidQuantity   = "invalid quantity"
)

func (e *IncompleteAllocationError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, fmt.Sprintf("%s (%s)", l.ProductName, l.Reason))
	}
	return "cannot approve: " + strings.Join(parts, ", ")
}

func (e *IncompleteAllocationError) Unwrap() error { return ErrIncompleteAllocation }

// StockFetchError keeps the line id so a failure stays local to its line.
type StockFetchError struct {
	LineID    string
	ProductID string
	Err       error
}

func (e *StockFetchError) Error() string {
	return fmt.Sprintf("stock for product %s (line %s): %v", e.ProductID, e.LineID, e.Err)
}

func (e *StockFetchError) Unwrap() []error { return []error{ErrStockFetch, e.Err} }
