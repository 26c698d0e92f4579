package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const snapshotJSON = `{
  "lines": [
    {"id": "L1", "productId": "P1", "productName": "Bearing 6204", "quantity": "100", "unit": "pcs",
     "unitPrice": "11", "totalPrice": "1100", "sourceType": "STOCK_PICK"},
    {"id": "L2", "productId": "P2", "productName": "Hydraulic oil", "quantity": "50", "unit": "l",
     "unitPrice": "10", "totalPrice": "500", "sourceType": "STOCK_PICK"}
  ],
  "stock": {
    "L1": [{"warehouseId": "WH-A", "warehouseName": "Main", "stock": 60, "price": 10},
           {"warehouseId": "WH-B", "warehouseName": "Annex", "stock": 50, "price": 12}]
  },
  "selections": {"L1": ["WH-A"]}
}`

type decodedOutput struct {
	Lines []struct {
		State string `json:"state"`
		Split *struct {
			Quantity json.Number `json:"quantity"`
		} `json:"split"`
	} `json:"lines"`
	Blockers []struct {
		LineID string `json:"line_id"`
	} `json:"blockers"`
	Payload map[string]json.RawMessage `json:"payload"`
}

func TestRunAllocate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runAllocate(strings.NewReader(snapshotJSON), &out))

	var got decodedOutput
	dec := json.NewDecoder(&out)
	dec.UseNumber()
	require.NoError(t, dec.Decode(&got))

	require.Len(t, got.Lines, 2)
	assert.Equal(t, "partial", got.Lines[0].State)
	require.NotNil(t, got.Lines[0].Split)
	assert.Equal(t, "40", got.Lines[0].Split.Quantity.String())
	assert.Equal(t, "not_allocated", got.Lines[1].State)

	require.Len(t, got.Blockers, 1)
	assert.Equal(t, "L2", got.Blockers[0].LineID)

	assert.Contains(t, got.Payload, "L1")
	assert.Contains(t, got.Payload, "__splitItems__")
}

func TestRunAllocateRejectsUnknownLine(t *testing.T) {
	in := `{"lines": [], "selections": {"nope": ["WH-A"]}}`
	err := runAllocate(strings.NewReader(in), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	payloadPath := filepath.Join(dir, "payload.json")
	outPath := filepath.Join(dir, "out.xlsx")
	payload := `{"L1":[{"warehouseId":"WH-A","warehouseName":"Main","quantity":"60","unitPrice":"10","totalPrice":"600"}],
	"__splitItems__":[{"parentId":"L1","productId":"P1","quantity":"40","unit":"pcs","sourceType":"PURCHASE","unitPrice":"11","totalPrice":"440","note":""}]}`
	require.NoError(t, os.WriteFile(payloadPath, []byte(payload), 0o600))

	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"export", "-i", payloadPath, "-o", outPath, "--code", "PR-2026-0001"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "1 allocations and 1 split items")

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()

	code, err := f.GetCellValue("Allocations", "B1")
	require.NoError(t, err)
	assert.Equal(t, "PR-2026-0001", code)
	wh, err := f.GetCellValue("Allocations", "C4")
	require.NoError(t, err)
	assert.Equal(t, "Main", wh)
	src, err := f.GetCellValue("Split items", "E2")
	require.NoError(t, err)
	assert.Equal(t, "PURCHASE", src)
}
