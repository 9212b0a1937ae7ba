package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXEncoder renders the spreadsheet-workbook encoding via excelize:
// a "Report" sheet with the table and, when requested, a "Summary" sheet
// holding the key/value header block.
type XLSXEncoder struct{}

// NewXLSXEncoder returns the spreadsheet-workbook encoder. Leave the
// exporter's XLSX slot nil instead to model an unavailable capability.
func NewXLSXEncoder() *XLSXEncoder { return &XLSXEncoder{} }

func (*XLSXEncoder) Extension() string { return "xlsx" }

func (*XLSXEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Encode builds the workbook fully in memory.
func (*XLSXEncoder) Encode(p Payload) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx encode: rename sheet: %w", err)
	}

	header := make([]any, len(p.Columns))
	for i, col := range p.Columns {
		header[i] = ToTitleCase(col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx encode: header: %w", err)
	}

	record := make([]any, len(p.Columns))
	for i, row := range p.Rows {
		for j, col := range p.Columns {
			record[j] = row[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("xlsx encode: row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return nil, fmt.Errorf("xlsx encode: row %d: %w", i+2, err)
		}
	}

	if p.IncludeSummary {
		if _, err := f.NewSheet("Summary"); err != nil {
			return nil, fmt.Errorf("xlsx encode: summary sheet: %w", err)
		}
		for i, kv := range summaryLines(p) {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return nil, fmt.Errorf("xlsx encode: summary row %d: %w", i+1, err)
			}
			pair := []any{kv[0], kv[1]}
			if err := f.SetSheetRow("Summary", cell, &pair); err != nil {
				return nil, fmt.Errorf("xlsx encode: summary row %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx encode: write: %w", err)
	}
	return buf.Bytes(), nil
}
