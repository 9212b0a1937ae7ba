package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/visitops/cvm-planner/backend/internal/report"
)

// ---- NormalizeStatus ---------------------------------------------------

func TestNormalizeStatus_CanonicalBuckets(t *testing.T) {
	cases := map[string]report.Status{
		"completed": report.StatusCompleted,
		"COMPLETED": report.StatusCompleted,
		" Completed ": report.StatusCompleted,
		"cancelled": report.StatusCancelled,
		"Cancelled": report.StatusCancelled,
		"planned":   report.StatusPlanned,
		"":          report.StatusPlanned,
		"follow up": report.StatusPlanned,
		"DONE":      report.StatusPlanned, // unrecognized values default to Planned
	}
	for raw, want := range cases {
		assert.Equal(t, want, report.NormalizeStatus(raw), "input %q", raw)
	}
}

func TestNormalizeStatus_TotalAndIdempotent(t *testing.T) {
	inputs := []string{"", "completed", "Cancelled", "x", "  ", "planned", "n/a"}
	canonical := map[report.Status]bool{
		report.StatusPlanned:   true,
		report.StatusCompleted: true,
		report.StatusCancelled: true,
	}
	for _, raw := range inputs {
		once := report.NormalizeStatus(raw)
		twice := report.NormalizeStatus(string(once))
		assert.True(t, canonical[once], "output must be canonical for %q", raw)
		assert.Equal(t, once, twice, "normalization must be idempotent for %q", raw)
	}
}

// ---- ToISODate -----------------------------------------------------------

func TestToISODate(t *testing.T) {
	assert.Equal(t, "2024-01-05", report.ToISODate("2024-01-05"))
	assert.Equal(t, "2024-01-05", report.ToISODate("2024-01-05T14:30:00Z"))
	assert.Equal(t, "2024-01-05", report.ToISODate("2024-01-05 14:30:00"))
	assert.Equal(t, "2024-01-05", report.ToISODate("05/01/2024"))
	assert.Equal(t, "", report.ToISODate(""))
	assert.Equal(t, "", report.ToISODate("   "))
	// Unparsable input is echoed back verbatim, never thrown away.
	assert.Equal(t, "soon", report.ToISODate("soon"))
}

// ---- ToFriendlyDate --------------------------------------------------------

func TestToFriendlyDate(t *testing.T) {
	assert.Equal(t, "Jan 5, 2024", report.ToFriendlyDate("2024-01-05"))
	assert.Equal(t, "Dec 31, 2023", report.ToFriendlyDate("2023-12-31T23:59:00Z"))
	assert.Equal(t, "not a date", report.ToFriendlyDate("not a date"))
}
