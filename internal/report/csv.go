package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVEncoder renders the delimited-text encoding. Fields containing a comma,
// quote, or newline are quoted with embedded quotes doubled (encoding/csv's
// rules). This is the fallback encoder for unknown formats.
type CSVEncoder struct{}

// NewCSVEncoder returns the delimited-text encoder.
func NewCSVEncoder() *CSVEncoder { return &CSVEncoder{} }

func (*CSVEncoder) Extension() string { return "csv" }

func (*CSVEncoder) ContentType() string { return "text/csv; charset=utf-8" }

// Encode writes the optional summary block (title line, date-range and
// generated lines, four count lines, blank line), then a header line of
// title-cased column labels, then one line per row.
func (*CSVEncoder) Encode(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if p.IncludeSummary {
		//nolint:errcheck — writes to bytes.Buffer never fail.
		w.Write([]string{p.Title})
		for _, kv := range summaryLines(p)[1:] {
			//nolint:errcheck
			w.Write([]string{kv[0], kv[1]})
		}
		//nolint:errcheck
		w.Write([]string{""}) // blank separator line
	}

	header := make([]string, len(p.Columns))
	for i, col := range p.Columns {
		header[i] = ToTitleCase(col)
	}
	//nolint:errcheck
	w.Write(header)

	record := make([]string, len(p.Columns))
	for _, row := range p.Rows {
		for i, col := range p.Columns {
			record[i] = row[col] // absent keys read as ""
		}
		//nolint:errcheck
		w.Write(record)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv encode: %w", err)
	}
	return buf.Bytes(), nil
}
