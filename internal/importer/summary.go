package importer

import "fmt"

// Upsert policies control how rows that already exist in the database are
// handled.
const (
	PolicyMerge      = "merge"       // non-empty workbook values win, blanks keep existing data
	PolicyCreateOnly = "create_only" // existing rows are left untouched
	PolicyOverwrite  = "overwrite"   // workbook values replace existing data wholesale
)

// Validation modes decide whether soft data problems block the import.
const (
	ModeStandard = "standard"
	ModeStrict   = "strict"
)

// Duplicate policies decide which row wins when a sheet repeats a key.
const (
	DupLastWins  = "last_wins"
	DupFirstWins = "first_wins"
	DupError     = "error"
)

// rowIssueLimit caps the per-row issue list; further issues only bump the
// truncation counter so a pathological workbook cannot balloon the response.
const rowIssueLimit = 300

// RowIssue is one localized problem found while parsing the workbook.
type RowIssue struct {
	Level   string `json:"level"` // "warning" or "error"
	Sheet   string `json:"sheet"`
	Row     int    `json:"row,omitempty"`
	Message string `json:"message"`
}

// Summary is the full result of a workbook import, returned for both dry runs
// and applied imports.
type Summary struct {
	Filename        string `json:"filename"`
	DryRun          bool   `json:"dry_run"`
	UpsertPolicy    string `json:"upsert_policy"`
	ValidationMode  string `json:"validation_mode"`
	DuplicatePolicy string `json:"duplicate_policy"`
	CalendarYear    int    `json:"calendar_year"`

	TerritoriesCreated       int `json:"territories_created"`
	CustomersCreated         int `json:"customers_created"`
	CustomersUpdated         int `json:"customers_updated"`
	CustomersSkippedExisting int `json:"customers_skipped_existing"`
	StoresCreated            int `json:"stores_created"`
	StoresUpdated            int `json:"stores_updated"`
	StoresSkippedExisting    int `json:"stores_skipped_existing"`
	CvmEntriesUpserted       int `json:"cvm_entries_upserted"`
	CvmEntriesSkipped        int `json:"cvm_entries_skipped_existing"`

	Warnings             []string   `json:"warnings"`
	WarningCount         int        `json:"warning_count"`
	ErrorCount           int        `json:"error_count"`
	RowIssues            []RowIssue `json:"row_issues"`
	RowIssueLimit        int        `json:"row_issue_limit"`
	RowIssuesTruncated   int        `json:"row_issues_truncated"`
	DuplicateRowsSkipped int        `json:"duplicate_rows_skipped"`

	Blockers []string `json:"blockers"`
	CanApply bool     `json:"can_apply"`
}

func newSummary(filename string, opts Options) *Summary {
	return &Summary{
		Filename:        filename,
		DryRun:          opts.DryRun,
		UpsertPolicy:    opts.UpsertPolicy,
		ValidationMode:  opts.ValidationMode,
		DuplicatePolicy: opts.DuplicatePolicy,
		Warnings:        []string{},
		RowIssues:       []RowIssue{},
		RowIssueLimit:   rowIssueLimit,
		Blockers:        []string{},
		CanApply:        true,
	}
}

// recordIssue appends a row issue, honoring the cap, and bumps the level counter.
func (s *Summary) recordIssue(level, sheet string, row int, message string) {
	if len(s.RowIssues) < s.RowIssueLimit {
		s.RowIssues = append(s.RowIssues, RowIssue{Level: level, Sheet: sheet, Row: row, Message: message})
	} else {
		s.RowIssuesTruncated++
	}

	switch level {
	case "error":
		s.ErrorCount++
	case "warning":
		s.WarningCount++
	}
}

// validationLevel is the issue level for soft data problems: strict mode
// escalates them to errors.
func (s *Summary) validationLevel() string {
	if s.ValidationMode == ModeStrict {
		return "error"
	}
	return "warning"
}

// addWarning records a sheet-level warning (no specific row).
func (s *Summary) addWarning(message string) {
	s.Warnings = append(s.Warnings, message)
	s.WarningCount++
}

// addBlocker records a condition that prevents applying the import. Repeated
// messages collapse to one.
func (s *Summary) addBlocker(message string) {
	for _, b := range s.Blockers {
		if b == message {
			return
		}
	}
	s.Blockers = append(s.Blockers, message)
}

// finish computes the strict-mode blocker and the final can_apply flag.
func (s *Summary) finish() {
	if s.ValidationMode == ModeStrict && s.ErrorCount > 0 {
		s.addBlocker(fmt.Sprintf(
			"Strict validation found %d error(s). Resolve errors before applying import.", s.ErrorCount))
	}
	s.CanApply = len(s.Blockers) == 0
}

// registerDuplicate tracks sheet keys that must be unique. It returns true
// when the row should still be processed under the active duplicate policy.
func (s *Summary) registerDuplicate(seen map[string]int, key, sheet string, row int, label string) bool {
	firstRow, dup := seen[key]
	if !dup {
		seen[key] = row
		return true
	}

	base := fmt.Sprintf("Duplicate %s key %q (first seen at row %d).", label, key, firstRow)

	switch s.DuplicatePolicy {
	case DupFirstWins:
		s.DuplicateRowsSkipped++
		s.recordIssue("warning", sheet, row, base+" Row skipped (first row kept).")
		return false
	case DupError:
		s.DuplicateRowsSkipped++
		s.recordIssue("error", sheet, row, base+" Row skipped (duplicate policy = error).")
		s.addBlocker("Duplicate key errors were found with duplicate policy set to 'error'.")
		return false
	default: // last_wins
		s.recordIssue("warning", sheet, row, base+" Last row wins.")
		return true
	}
}
