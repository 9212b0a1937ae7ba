package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitops/cvm-planner/backend/internal/report"
)

func findRow(t *testing.T, rows []report.Row, key, value string) report.Row {
	t.Helper()
	for _, row := range rows {
		if row[key] == value {
			return row
		}
	}
	t.Fatalf("no row with %s=%q", key, value)
	return nil
}

// ---- visit_detail ------------------------------------------------------

func TestBuildRows_DetailPreservesOrderAndCount(t *testing.T) {
	events := []report.Event{
		{EventDate: "2024-01-05", CustomerName: "Acme", Status: "completed"},
		{EventDate: "2024-01-01", CustomerName: "Beta", Status: "planned"},
	}

	rows, err := report.BuildRows(report.TypeVisitDetail, events)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0]["customer_name"])
	assert.Equal(t, "Completed", rows[0]["status"])
	assert.Equal(t, "2024-01-05", rows[0]["event_date"])
	assert.Equal(t, "Beta", rows[1]["customer_name"])
	assert.Equal(t, "Planned", rows[1]["status"])
}

func TestBuildRows_UnknownType(t *testing.T) {
	_, err := report.BuildRows(report.Type("weekly_digest"), nil)
	assert.ErrorIs(t, err, report.ErrUnknownReportType)
}

// ---- executive_summary ---------------------------------------------------

func TestBuildRows_TerritoryAggregation(t *testing.T) {
	events := []report.Event{
		{Territory: "North", Status: "completed"},
		{Territory: "North", Status: "completed"},
		{Territory: "North", Status: "cancelled"},
		{Status: "planned"}, // no territory -> Unassigned
	}

	rows, err := report.BuildRows(report.TypeExecutiveSummary, events)

	require.NoError(t, err)
	require.Len(t, rows, 2)

	north := findRow(t, rows, "territory", "North")
	assert.Equal(t, "3", north["total_visits"])
	assert.Equal(t, "2", north["completed_visits"])
	assert.Equal(t, "1", north["cancelled_visits"])
	assert.Equal(t, "67%", north["completion_rate"])

	unassigned := findRow(t, rows, "territory", "Unassigned")
	assert.Equal(t, "1", unassigned["total_visits"])
	assert.Equal(t, "0%", unassigned["completion_rate"])
}

func TestBuildRows_TerritoryOrderIsLexical(t *testing.T) {
	events := []report.Event{
		{Territory: "West"},
		{Territory: "East"},
		{Territory: "North"},
	}

	rows, err := report.BuildRows(report.TypeExecutiveSummary, events)

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "East", rows[0]["territory"])
	assert.Equal(t, "North", rows[1]["territory"])
	assert.Equal(t, "West", rows[2]["territory"])
}

func TestCompletionRate_Boundaries(t *testing.T) {
	all := []report.Event{
		{Territory: "A", Status: "completed"},
		{Territory: "A", Status: "completed"},
	}
	rows, err := report.BuildRows(report.TypeExecutiveSummary, all)
	require.NoError(t, err)
	assert.Equal(t, "100%", rows[0]["completion_rate"])

	none := []report.Event{{Territory: "A", Status: "planned"}}
	rows, err = report.BuildRows(report.TypeExecutiveSummary, none)
	require.NoError(t, err)
	assert.Equal(t, "0%", rows[0]["completion_rate"])
}

// ---- monthly_summary -------------------------------------------------------

func TestBuildRows_MonthlyBucketing(t *testing.T) {
	events := []report.Event{
		{EventDate: "2024-01-15", Status: "completed"},
		{EventDate: "2024-01-28", Status: "planned"},
		{EventDate: "2024-03-02", Status: "planned"},
		{EventDate: "not a date", Status: "planned"}, // dropped, must not raise
	}

	rows, err := report.BuildRows(report.TypeMonthlySummary, events)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Ordered by YYYY-MM key ascending; labels are display strings.
	assert.Equal(t, "January 2024", rows[0]["month"])
	assert.Equal(t, "2", rows[0]["total_visits"])
	assert.Equal(t, "1", rows[0]["completed_visits"])
	assert.Equal(t, "March 2024", rows[1]["month"])
	assert.Equal(t, "1", rows[1]["total_visits"])
}

// ---- customer_performance --------------------------------------------------

func TestBuildRows_CustomerPerformance(t *testing.T) {
	events := []report.Event{
		{CustomerCode: "C2", CustomerName: "Beta", Territory: "South", EventDate: "2024-02-01", Status: "completed"},
		{CustomerCode: "C1", CustomerName: "Acme", Territory: "North", EventDate: "2024-01-10", Status: "completed"},
		{CustomerCode: "C1", CustomerName: "Acme", Territory: "North", EventDate: "2024-03-05", Status: "planned"},
		{Status: "planned"}, // no code/name -> "-"/"Unknown"
	}

	rows, err := report.BuildRows(report.TypeCustomerPerformance, events)

	require.NoError(t, err)
	require.Len(t, rows, 3)
	// Ordered by customer name ascending.
	assert.Equal(t, "Acme", rows[0]["customer_name"])
	assert.Equal(t, "Beta", rows[1]["customer_name"])
	assert.Equal(t, "Unknown", rows[2]["customer_name"])
	assert.Equal(t, "-", rows[2]["customer_code"])

	acme := rows[0]
	assert.Equal(t, "2", acme["total_visits"])
	assert.Equal(t, "50%", acme["completion_rate"])
	assert.Equal(t, "2024-03-05", acme["last_visit_date"])
	assert.Equal(t, "North", acme["territory"])

	// A bucket with no parsable dates exports an empty last visit.
	assert.Equal(t, "", rows[2]["last_visit_date"])
	assert.Equal(t, "Unassigned", rows[2]["territory"])
}
