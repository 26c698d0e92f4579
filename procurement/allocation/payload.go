package allocation

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// SplitItemsKey is the payload key that carries synthetic purchase lines.
const SplitItemsKey = "__splitItems__"

type SplitItem struct {
	ParentID   string          `json:"parentId"`
	ProductID  string          `json:"productId"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	SourceType SourceType      `json:"sourceType"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Note       string          `json:"note"`
}

// Payload is what an approval submission hands to the backend: drawn
// warehouse allocations per line id, plus the split purchase lines.
type Payload struct {
	Lines      map[string][]WarehouseAllocation
	SplitItems []SplitItem
}

// BuildPayload collects the allocations of every line that drew stock and
// every split line, in the order of results.
func BuildPayload(results []Result) Payload {
	p := Payload{Lines: make(map[string][]WarehouseAllocation)}
	for _, r := range results {
		if len(r.Allocations) > 0 {
			p.Lines[r.Parent.ID] = append([]WarehouseAllocation(nil), r.Allocations...)
		}
		if r.Split != nil {
			p.SplitItems = append(p.SplitItems, SplitItem{
				ParentID:   r.Split.ParentID,
				ProductID:  r.Split.ProductID,
				Quantity:   r.Split.Quantity,
				Unit:       r.Split.Unit,
				SourceType: r.Split.SourceType,
				UnitPrice:  r.Split.UnitPrice,
				TotalPrice: r.Split.TotalPrice,
				Note:       r.Split.Note,
			})
		}
	}
	return p
}

// LineIDs returns the allocated line ids in a stable order.
func (p Payload) LineIDs() []string {
	ids := make([]string, 0, len(p.Lines))
	for id := range p.Lines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (p Payload) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Lines)+1)
	for id, allocs := range p.Lines {
		out[id] = allocs
	}
	splits := p.SplitItems
	if splits == nil {
		splits = []SplitItem{}
	}
	out[SplitItemsKey] = splits
	return json.Marshal(out)
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Lines = make(map[string][]WarehouseAllocation, len(raw))
	p.SplitItems = nil
	for key, msg := range raw {
		if key == SplitItemsKey {
			if err := json.Unmarshal(msg, &p.SplitItems); err != nil {
				return fmt.Errorf("decode %s: %w", SplitItemsKey, err)
			}
			continue
		}
		var allocs []WarehouseAllocation
		if err := json.Unmarshal(msg, &allocs); err != nil {
			return fmt.Errorf("decode allocations for line %s: %w", key, err)
		}
		p.Lines[key] = allocs
	}
	return nil
}
