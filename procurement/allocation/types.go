package allocation

import (
	"github.com/shopspring/decimal"
)

// SourceType tells how a request line is fulfilled.
type SourceType string

const (
	SourcePurchase        SourceType = "PURCHASE"
	SourceStockPick       SourceType = "STOCK_PICK"
	SourceOperational     SourceType = "OPERATIONAL"
	SourceServicePurchase SourceType = "SERVICE_PURCHASE"
	SourceServiceInternal SourceType = "SERVICE_INTERNAL"
)

func (s SourceType) Valid() bool {
	switch s {
	case SourcePurchase, SourceStockPick, SourceOperational, SourceServicePurchase, SourceServiceInternal:
		return true
	}
	return false
}

// SplitIDPrefix marks a line that only exists in the view-model.
const SplitIDPrefix = "split-"

// RequestLine is one item of a purchase request as the calculator sees it.
type RequestLine struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	SourceType  SourceType      `json:"sourceType"`
	Note        string          `json:"note,omitempty"`
}

// WarehouseStockEntry is one row of a product's stock breakdown.
type WarehouseStockEntry struct {
	WarehouseID       string          `json:"warehouseId"`
	WarehouseName     string          `json:"warehouseName"`
	AvailableQuantity decimal.Decimal `json:"stock"`
	UnitPrice         decimal.Decimal `json:"price"`
}

// TotalStock sums available quantity over the whole breakdown, ignoring the selection.
func TotalStock(breakdown []WarehouseStockEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range breakdown {
		if e.AvailableQuantity.IsPositive() {
			total = total.Add(e.AvailableQuantity)
		}
	}
	return total
}

// WarehouseAllocation is the quantity drawn from one warehouse.
type WarehouseAllocation struct {
	WarehouseID   string          `json:"warehouseId"`
	WarehouseName string          `json:"warehouseName"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// SplitLine is the synthetic purchase line covering a stock shortfall.
type SplitLine struct {
	RequestLine
	ParentID string `json:"parentId"`
}

// State summarises what the calculator did with a line.
type State int

const (
	NotAllocated State = iota
	Partial
	Covered
	Bypassed
)

func (s State) String() string {
	switch s {
	case NotAllocated:
		return "not_allocated"
	case Partial:
		return "partial"
	case Covered:
		return "covered"
	case Bypassed:
		return "bypassed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Input is everything Allocate looks at for a single line.
type Input struct {
	Line RequestLine
	// EffectiveSource overrides Line.SourceType when set.
	EffectiveSource SourceType
	// Selected filters Breakdown; breakdown order decides who is drawn from first.
	Selected  []string
	Breakdown []WarehouseStockEntry
	Override  *decimal.Decimal
}

func (in Input) source() SourceType {
	if in.EffectiveSource != "" {
		return in.EffectiveSource
	}
	return in.Line.SourceType
}

// Result is the adjusted parent, the optional split and the drawn allocations.
type Result struct {
	Parent         RequestLine           `json:"parent"`
	Split          *SplitLine            `json:"split,omitempty"`
	Allocations    []WarehouseAllocation `json:"allocations"`
	TotalAllocated decimal.Decimal       `json:"totalAllocated"`
	Shortfall      decimal.Decimal       `json:"shortfall"`
	State          State                 `json:"state"`
}

// Incomplete reports whether the line still blocks approval.
func (r Result) Incomplete() bool {
	return r.State == NotAllocated
}

func (r Result) clone() Result {
	out := r
	if r.Split != nil {
		s := *r.Split
		out.Split = &s
	}
	if r.Allocations != nil {
		out.Allocations = append([]WarehouseAllocation(nil), r.Allocations...)
	}
	return out
}
