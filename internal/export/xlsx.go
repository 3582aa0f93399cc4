package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"invoicegate/internal/domain"
)

// SheetName is the worksheet holding the job rows.
const SheetName = "Jobs"

var columnWidths = map[string]float64{
	"A": 38, // job id
	"B": 12,
	"C": 12,
	"D": 18,
	"E": 28,
	"F": 14,
	"G": 16,
	"H": 16,
	"I": 22,
	"J": 48,
}

// XLSX renders the listing as a single-sheet workbook.
func XLSX(items []domain.JobListItem) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("export.XLSX: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("export.XLSX: %w", err)
	}
	if err := writeRow(f, 1, columns); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("export.XLSX: %w", err)
	}

	for i := range items {
		if err := writeRow(f, i+2, itemToRow(&items[i])); err != nil {
			return nil, err
		}
	}

	for col, width := range columnWidths {
		_ = f.SetColWidth(SheetName, col, col, width)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export.XLSX: xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("export.XLSX: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("export.XLSX: %w", err)
		}
	}
	return nil
}
