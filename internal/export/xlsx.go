package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"adsmith/pkg/domain"
)

const xlsxSheet = "History"

// ToXLSX renders the entries as a single-sheet workbook with the same
// columns as the CSV export.
func ToXLSX(entries []domain.HistoryEntry) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	idx, err := xl.NewSheet(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	xl.SetActiveSheet(idx)
	if err := xl.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]any, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := xl.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, ad := range entries {
		row := entryRow(ad)
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := xl.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
