// Package report implements the report/export core: status and date
// normalization, the report-type registry with its aggregators, column
// resolution, summary metrics, the CSV/XLSX/PDF encoders, and the export
// orchestrator that chains them.
package report

import (
	"strings"
	"time"
)

// Status is the canonical visit status every report works with.
type Status string

// Canonical status values. NormalizeStatus maps every input onto exactly one
// of these, so counts over the three buckets always sum to the row total.
const (
	StatusPlanned   Status = "Planned"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Event is a single source visit-event row as fed to the report core.
// The data layer supplies these already filtered; the core only reads them.
// Any field may be empty.
type Event struct {
	EventDate    string // date string, optionally with a time component
	CustomerName string
	CustomerCode string
	Territory    string
	Status       string // free-form; see NormalizeStatus
}

// NormalizeStatus maps a free-form status string onto a canonical Status.
// The match is case-insensitive and total: "completed" and "cancelled" map to
// their buckets, everything else (including empty) is Planned.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed":
		return StatusCompleted
	case "cancelled":
		return StatusCancelled
	default:
		return StatusPlanned
	}
}

// dateLayouts are tried in order by parseDate. Layouts with a time component
// come first so a timestamp is not truncated by a shorter match.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// parseDate parses a date-like string, defaulting the time to midnight when
// absent. The second return is false when no layout matches.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToISODate reduces a date-like string to its ISO date ("2006-01-02").
// Empty input yields ""; unparsable input is echoed back verbatim rather than
// thrown away, so bad source values stay visible in detail rows.
func ToISODate(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	t, ok := parseDate(raw)
	if !ok {
		return raw
	}
	return t.Format("2006-01-02")
}

// ToFriendlyDate renders a date-like string as "Jan 2, 2006" for display-only
// contexts such as export summary headers. Unparsable input falls back to the
// raw string.
func ToFriendlyDate(raw string) string {
	t, ok := parseDate(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2, 2006")
}
