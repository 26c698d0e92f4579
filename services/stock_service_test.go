package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"procurement-app/procurement/allocation"
	"procurement-app/procurement/verification"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStock struct {
	mu    sync.Mutex
	calls map[string]int
	data  map[string][]allocation.WarehouseStockEntry
	fail  map[string]error
}

func (f *fakeStock) LatestStock(_ context.Context, productID string) ([]allocation.WarehouseStockEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[productID]++
	if err := f.fail[productID]; err != nil {
		return nil, err
	}
	return f.data[productID], nil
}

func entry(id string, qty, price int64) allocation.WarehouseStockEntry {
	return allocation.WarehouseStockEntry{
		WarehouseID:       id,
		WarehouseName:     "Warehouse " + id,
		AvailableQuantity: decimal.NewFromInt(qty),
		UnitPrice:         decimal.NewFromInt(price),
	}
}

func line(id, product string, qty int64, src allocation.SourceType) allocation.RequestLine {
	return allocation.RequestLine{
		ID:          id,
		ProductID:   product,
		ProductName: "Product " + product,
		Quantity:    decimal.NewFromInt(qty),
		Unit:        "pcs",
		UnitPrice:   decimal.NewFromInt(11),
		TotalPrice:  decimal.NewFromInt(qty * 11),
		SourceType:  src,
	}
}

func TestFetchBreakdowns(t *testing.T) {
	provider := &fakeStock{
		data: map[string][]allocation.WarehouseStockEntry{
			"P1": {entry("WH-A", 60, 10), entry("WH-B", 50, 12)},
		},
		fail: map[string]error{"P2": errors.New("connection refused")},
	}
	sess := verification.NewSession([]allocation.RequestLine{
		line("L1", "P1", 100, allocation.SourceStockPick),
		line("L2", "P1", 10, allocation.SourceStockPick),
		line("L3", "P2", 5, allocation.SourceStockPick),
		line("L4", "P3", 5, allocation.SourcePurchase),
	})

	FetchBreakdowns(context.Background(), provider, sess, 2)

	assert.Equal(t, 1, provider.calls["P1"], "one request per product")
	assert.Equal(t, 1, provider.calls["P2"])
	assert.Zero(t, provider.calls["P3"], "purchase lines are not fetched")

	assert.Len(t, sess.Breakdown("L1"), 2)
	assert.Len(t, sess.Breakdown("L2"), 2)
	assert.NoError(t, sess.StockError("L1"))

	err := sess.StockError("L3")
	require.Error(t, err)
	assert.ErrorIs(t, err, allocation.ErrStockFetch)
	assert.Empty(t, sess.Breakdown("L4"))
}

func TestRemoteStockProvider(t *testing.T) {
	var gotRequestID, gotProduct string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		gotProduct = r.URL.Query().Get("productId")
		switch gotProduct {
		case "P1":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    110,
				"breakdown": []map[string]any{
					{"warehouseId": "WH-A", "warehouseName": "Main", "stock": 60, "price": 10},
					{"warehouseId": "WH-B", "warehouseName": "Annex", "stock": 50, "price": 12},
				},
			})
		case "P2":
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "product not found"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	p := NewRemoteStockProvider(srv.URL, 5*time.Second, nil, 0, nil)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")

	breakdown, err := p.LatestStock(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, "WH-A", breakdown[0].WarehouseID)
	assert.True(t, breakdown[1].AvailableQuantity.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "req-1", gotRequestID)
	assert.Equal(t, "P1", gotProduct)

	_, err = p.LatestStock(ctx, "P2")
	assert.ErrorContains(t, err, "product not found")

	_, err = p.LatestStock(ctx, "P9")
	assert.ErrorContains(t, err, "500")
}

func TestRemoteStockProvider_CancelledContext(t *testing.T) {
	p := NewRemoteStockProvider("http://127.0.0.1:1", time.Second, nil, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.LatestStock(ctx, "P1")
	assert.ErrorIs(t, err, context.Canceled)
}
