package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownReportType is returned when a report type is not in the registry.
var ErrUnknownReportType = errors.New("unknown report type")

// ErrEmptyResult is returned when aggregation produced zero rows for the
// given filters and report type. No partial file is produced.
var ErrEmptyResult = errors.New("no records match the current export settings")

// ErrNoColumnsSelected is returned when the resolved column list is empty.
// No partial file is produced.
var ErrNoColumnsSelected = errors.New("select at least one column to export")

// CapabilityError reports that the encoding capability for a format is not
// wired into the exporter. Encoders are explicit constructor dependencies, so
// absence is a recoverable call-time condition, never a crash.
type CapabilityError struct {
	Format Format
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s library is not available.", strings.ToUpper(string(e.Format)))
}
