// Package verification keeps the state of one purchase-request verification:
// which warehouses were ticked per line, manual split quantities, source
// overrides and the stock snapshot each line was computed against.
package verification

import (
	"errors"
	"fmt"

	"procurement-app/procurement/allocation"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

var (
	ErrUnknownLine              = errors.New("unknown request line")
	ErrSourceOverrideNotAllowed = errors.New("source override only allowed for stock-pick lines without stock")
)

type snapshot struct {
	productID string
	breakdown []allocation.WarehouseStockEntry
	err       error
}

// Session is not safe for concurrent use; one verification owns one session.
type Session struct {
	lines     []allocation.RequestLine
	index     map[string]int
	selection map[string][]string
	overrides map[string]decimal.Decimal
	sources   map[string]allocation.SourceType
	stock     map[string]snapshot
}

func NewSession(lines []allocation.RequestLine) *Session {
	s := &Session{
		lines:     append([]allocation.RequestLine(nil), lines...),
		index:     make(map[string]int, len(lines)),
		selection: make(map[string][]string),
		overrides: make(map[string]decimal.Decimal),
		sources:   make(map[string]allocation.SourceType),
		stock:     make(map[string]snapshot),
	}
	for i, l := range s.lines {
		s.index[l.ID] = i
	}
	return s
}

func (s *Session) Lines() []allocation.RequestLine {
	return append([]allocation.RequestLine(nil), s.lines...)
}

func (s *Session) line(id string) (allocation.RequestLine, error) {
	i, ok := s.index[id]
	if !ok {
		return allocation.RequestLine{}, fmt.Errorf("%w: %s", ErrUnknownLine, id)
	}
	return s.lines[i], nil
}

// Toggle adds the warehouse to the line's selection or removes it if present.
func (s *Session) Toggle(lineID, warehouseID string) error {
	if _, err := s.line(lineID); err != nil {
		return err
	}
	cur := s.selection[lineID]
	if i := slices.Index(cur, warehouseID); i >= 0 {
		s.selection[lineID] = slices.Delete(slices.Clone(cur), i, i+1)
		return nil
	}
	s.selection[lineID] = append(slices.Clone(cur), warehouseID)
	return nil
}

// Select replaces the line's selection, dropping duplicates.
func (s *Session) Select(lineID string, warehouseIDs ...string) error {
	if _, err := s.line(lineID); err != nil {
		return err
	}
	var ids []string
	for _, id := range warehouseIDs {
		if id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	s.selection[lineID] = ids
	return nil
}

func (s *Session) Selected(lineID string) []string {
	return slices.Clone(s.selection[lineID])
}

// SetOverride pins the split quantity of a line until ClearOverride.
func (s *Session) SetOverride(lineID string, qty decimal.Decimal) error {
	if _, err := s.line(lineID); err != nil {
		return err
	}
	if !qty.IsPositive() {
		return &allocation.InvalidQuantityError{LineID: lineID, Field: "override", Value: qty.String()}
	}
	s.overrides[lineID] = qty
	return nil
}

func (s *Session) ClearOverride(lineID string) {
	delete(s.overrides, lineID)
}

// SetSourceOverride switches a STOCK_PICK line with zero total stock to be
// purchased instead. Setting the line's own source clears the override.
func (s *Session) SetSourceOverride(lineID string, src allocation.SourceType) error {
	l, err := s.line(lineID)
	if err != nil {
		return err
	}
	if src == l.SourceType {
		delete(s.sources, lineID)
		return nil
	}
	snap, ok := s.stock[lineID]
	if l.SourceType != allocation.SourceStockPick || src != allocation.SourcePurchase ||
		!ok || snap.err != nil || !allocation.TotalStock(snap.breakdown).IsZero() {
		return fmt.Errorf("%w: line %s", ErrSourceOverrideNotAllowed, lineID)
	}
	s.sources[lineID] = src
	return nil
}

func (s *Session) EffectiveSource(lineID string) allocation.SourceType {
	if src, ok := s.sources[lineID]; ok {
		return src
	}
	if l, err := s.line(lineID); err == nil {
		return l.SourceType
	}
	return ""
}

// ApplyStock stores a fetched breakdown. A response for a product the line no
// longer refers to is stale and gets dropped; the return value says whether
// the snapshot was kept.
func (s *Session) ApplyStock(lineID, productID string, breakdown []allocation.WarehouseStockEntry) bool {
	l, err := s.line(lineID)
	if err != nil || l.ProductID != productID {
		return false
	}
	s.stock[lineID] = snapshot{productID: productID, breakdown: append([]allocation.WarehouseStockEntry(nil), breakdown...)}
	return true
}

// MarkStockFailed records a failed fetch for the line only.
func (s *Session) MarkStockFailed(lineID, productID string, err error) bool {
	l, lerr := s.line(lineID)
	if lerr != nil || l.ProductID != productID {
		return false
	}
	s.stock[lineID] = snapshot{
		productID: productID,
		err:       &allocation.StockFetchError{LineID: lineID, ProductID: productID, Err: err},
	}
	return true
}

func (s *Session) Breakdown(lineID string) []allocation.WarehouseStockEntry {
	return append([]allocation.WarehouseStockEntry(nil), s.stock[lineID].breakdown...)
}

func (s *Session) StockError(lineID string) error {
	return s.stock[lineID].err
}

func (s *Session) input(l allocation.RequestLine) allocation.Input {
	in := allocation.Input{
		Line:            l,
		EffectiveSource: s.EffectiveSource(l.ID),
		Selected:        slices.Clone(s.selection[l.ID]),
		Breakdown:       s.Breakdown(l.ID),
	}
	if o, ok := s.overrides[l.ID]; ok {
		in.Override = &o
	}
	return in
}

// LineResult is one line's outcome. Err is set instead of failing the rest.
type LineResult struct {
	allocation.Result
	Err error
}

// Compute runs the calculator for every line in request order.
func (s *Session) Compute(memo *allocation.Memo) []LineResult {
	out := make([]LineResult, 0, len(s.lines))
	for _, l := range s.lines {
		res, err := memo.Allocate(s.input(l))
		if err == nil {
			err = s.stock[l.ID].err
		}
		out = append(out, LineResult{Result: res, Err: err})
	}
	return out
}

// ApprovalBlockers lists the lines that keep the request from being
// approved, or returns nil when approval may proceed.
func (s *Session) ApprovalBlockers(memo *allocation.Memo) error {
	var blocked []allocation.BlockedLine
	for i, lr := range s.Compute(memo) {
		l := s.lines[i]
		if s.EffectiveSource(l.ID) != allocation.SourceStockPick {
			if errors.Is(lr.Err, allocation.ErrInvalidQuantity) {
				blocked = append(blocked, allocation.BlockedLine{LineID: l.ID, ProductName: l.ProductName, Reason: allocation.ReasonInvalidQuantity})
			}
			continue
		}
		reason := ""
		switch {
		case errors.Is(lr.Err, allocation.ErrInvalidQuantity):
			reason = allocation.ReasonInvalidQuantity
		case len(s.selection[l.ID]) == 0:
			reason = allocation.ReasonNoWarehouse
		case errors.Is(lr.Err, allocation.ErrStockFetch):
			reason = allocation.ReasonNoStockData
		case l.Quantity.GreaterThan(allocation.TotalStock(s.stock[l.ID].breakdown)):
			reason = allocation.ReasonInsufficientStock
		case lr.Incomplete():
			reason = allocation.ReasonSelectedNoStock
		}
		if reason != "" {
			blocked = append(blocked, allocation.BlockedLine{LineID: l.ID, ProductName: l.ProductName, Reason: reason})
		}
	}
	if len(blocked) == 0 {
		return nil
	}
	return &allocation.IncompleteAllocationError{Lines: blocked}
}

// Payload builds the approval submission from the current state.
func (s *Session) Payload(memo *allocation.Memo) allocation.Payload {
	results := make([]allocation.Result, 0, len(s.lines))
	for _, lr := range s.Compute(memo) {
		if lr.Err != nil {
			continue
		}
		results = append(results, lr.Result)
	}
	return allocation.BuildPayload(results)
}
