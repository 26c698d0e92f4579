package allocation

import (
	"container/list"
	"strings"
	"sync"
)

const defaultMemoSize = 1024

// Memo caches Allocate results keyed on the full input. Identical inputs
// always map to the same key, so a hit is indistinguishable from a recompute.
// When full, the least recently used entry is evicted.
type Memo struct {
	mu      sync.Mutex
	max     int
	order   *list.List
	entries map[string]*list.Element
}

type memoEntry struct {
	key string
	res Result
	err error
}

func NewMemo(max int) *Memo {
	if max <= 0 {
		max = defaultMemoSize
	}
	return &Memo{max: max, order: list.New(), entries: make(map[string]*list.Element)}
}

func (m *Memo) Allocate(in Input) (Result, error) {
	if m == nil {
		return Allocate(in)
	}
	key := memoKey(in)

	m.mu.Lock()
	if el, ok := m.entries[key]; ok {
		m.order.MoveToFront(el)
		e := el.Value.(memoEntry)
		m.mu.Unlock()
		return e.res.clone(), e.err
	}
	m.mu.Unlock()

	res, err := Allocate(in)

	m.mu.Lock()
	if el, ok := m.entries[key]; ok {
		m.order.MoveToFront(el)
	} else {
		for m.order.Len() >= m.max {
			oldest := m.order.Back()
			m.order.Remove(oldest)
			delete(m.entries, oldest.Value.(memoEntry).key)
		}
		m.entries[key] = m.order.PushFront(memoEntry{key: key, res: res.clone(), err: err})
	}
	m.mu.Unlock()

	return res, err
}

func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func memoKey(in Input) string {
	var b strings.Builder
	l := in.Line
	for _, s := range []string{l.ID, l.ProductID, l.ProductName, l.Quantity.String(), l.Unit,
		l.UnitPrice.String(), l.TotalPrice.String(), string(l.SourceType), l.Note, string(in.EffectiveSource)} {
		b.WriteString(s)
		b.WriteByte(0)
	}
	b.WriteByte(1)
	for _, id := range in.Selected {
		b.WriteString(id)
		b.WriteByte(0)
	}
	b.WriteByte(1)
	for _, e := range in.Breakdown {
		b.WriteString(e.WarehouseID)
		b.WriteByte(0)
		b.WriteString(e.WarehouseName)
		b.WriteByte(0)
		b.WriteString(e.AvailableQuantity.String())
		b.WriteByte(0)
		b.WriteString(e.UnitPrice.String())
		b.WriteByte(0)
	}
	b.WriteByte(1)
	if in.Override != nil {
		b.WriteString(in.Override.String())
	}
	return b.String()
}
