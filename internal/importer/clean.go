// Package importer parses planner workbooks (.xlsx/.xlsm) and loads their
// customer, store, and CVM planning data into the database. Parsing is
// tolerant: malformed cells become row issues in the summary instead of
// aborting the import.
package importer

import (
	"strconv"
	"strings"
	"time"
)

// cleanText normalizes a raw cell value: non-breaking spaces become regular
// spaces and surrounding whitespace is trimmed.
func cleanText(value string) string {
	return strings.TrimSpace(strings.ReplaceAll(value, "\u00a0", " "))
}

// cleanCode normalizes a customer code cell. Spreadsheets routinely hand
// numeric codes back as floats, so a trailing ".0" on an otherwise numeric
// value is stripped.
func cleanCode(value string) string {
	raw := cleanText(value)
	if raw == "" {
		return ""
	}
	if strings.HasSuffix(raw, ".0") && isNumericWithOneDot(raw) {
		return raw[:len(raw)-2]
	}
	return raw
}

func isNumericWithOneDot(s string) bool {
	stripped := strings.Replace(s, ".", "", 1)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// extractName handles the workbook's "code | name" combined cells, returning
// the last non-empty pipe-separated part. Plain values pass through.
func extractName(value string) string {
	raw := cleanText(value)
	if raw == "" || !strings.Contains(raw, "|") {
		return raw
	}
	var parts []string
	for _, p := range strings.Split(raw, "|") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) >= 2 {
		return parts[len(parts)-1]
	}
	return raw
}

// excelEpoch is day zero of the 1900 date system (Lotus leap-year bug included).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// cellDateLayouts are the textual date formats accepted from workbook cells.
var cellDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"1/2/06", // excelize's default short-date rendering of date-typed cells
	"01-02-06",
}

// parseCellDate parses a workbook cell into a date. It accepts the textual
// formats above as well as raw Excel serial numbers. Returns ok=false for
// anything unparsable; the caller decides whether that is an issue.
func parseCellDate(value string) (time.Time, bool) {
	raw := cleanText(value)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	// Date-formatted cells can surface as their serial number.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial >= 20000 && serial <= 80000 { // 1954..2118
			return excelEpoch.AddDate(0, 0, int(serial)), true
		}
	}

	return time.Time{}, false
}

// parseCellBool interprets the workbook's completion ticks. Positive numbers
// and the usual affirmative strings are true; everything else is false.
func parseCellBool(value string) bool {
	raw := strings.ToLower(cleanText(value))
	if raw == "" {
		return false
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n > 0
	}
	switch raw {
	case "true", "yes", "y", "1", "done", "completed", "x":
		return true
	}
	return false
}

// rowPopulated reports whether any cell in the row has content after cleaning.
func rowPopulated(row []string) bool {
	for _, v := range row {
		if cleanText(v) != "" {
			return true
		}
	}
	return false
}

// cell returns the idx'th cell of a row, or "" when the row is shorter.
// excelize trims trailing empty cells from GetRows output.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
