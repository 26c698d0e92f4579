package services

import (
	"fmt"
	"io"

	"procurement-app/procurement/allocation"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportRow is one warehouse draw in the allocation workbook.
type ExportRow struct {
	LineID        string
	ProductName   string
	WarehouseName string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
}

// ExportRowsFromPayload flattens a payload; names maps line id to product name.
func ExportRowsFromPayload(p allocation.Payload, names map[string]string) []ExportRow {
	var rows []ExportRow
	for _, id := range p.LineIDs() {
		for _, a := range p.Lines[id] {
			rows = append(rows, ExportRow{
				LineID:        id,
				ProductName:   names[id],
				WarehouseName: a.WarehouseName,
				Quantity:      a.Quantity,
				UnitPrice:     a.UnitPrice,
				TotalPrice:    a.TotalPrice,
			})
		}
	}
	return rows
}

// WriteAllocationWorkbook writes an xlsx with an "Allocations" sheet and a
// "Split items" sheet.
func WriteAllocationWorkbook(w io.Writer, code string, rows []ExportRow, splits []allocation.SplitItem) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Allocations"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "PR Code")
	f.SetCellValue(sheet, "B1", code)
	headers := []string{"Line", "Product", "Warehouse", "Quantity", "Unit Price", "Total Price"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheet, cell, h)
	}

	total := decimal.Zero
	for i, r := range rows {
		row := i + 4
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.LineID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.WarehouseName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Quantity.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.UnitPrice.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.TotalPrice.InexactFloat64())
		total = total.Add(r.TotalPrice)
	}
	last := len(rows) + 4
	f.SetCellValue(sheet, fmt.Sprintf("E%d", last), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", last), total.InexactFloat64())

	const splitSheet = "Split items"
	if _, err := f.NewSheet(splitSheet); err != nil {
		return err
	}
	splitHeaders := []string{"Parent Line", "Product ID", "Quantity", "Unit", "Source", "Unit Price", "Total Price", "Note"}
	for i, h := range splitHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(splitSheet, cell, h)
	}
	for i, s := range splits {
		row := i + 2
		f.SetCellValue(splitSheet, fmt.Sprintf("A%d", row), s.ParentID)
		f.SetCellValue(splitSheet, fmt.Sprintf("B%d", row), s.ProductID)
		f.SetCellValue(splitSheet, fmt.Sprintf("C%d", row), s.Quantity.InexactFloat64())
		f.SetCellValue(splitSheet, fmt.Sprintf("D%d", row), s.Unit)
		f.SetCellValue(splitSheet, fmt.Sprintf("E%d", row), string(s.SourceType))
		f.SetCellValue(splitSheet, fmt.Sprintf("F%d", row), s.UnitPrice.InexactFloat64())
		f.SetCellValue(splitSheet, fmt.Sprintf("G%d", row), s.TotalPrice.InexactFloat64())
		f.SetCellValue(splitSheet, fmt.Sprintf("H%d", row), s.Note)
	}

	return f.Write(w)
}
