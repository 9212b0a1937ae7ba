package domain

import "time"

// PlannerDay is a single cell of the calendar month grid.
// Planned and Completed carry rendered item lines, e.g.
// "C045 Acme Stores (Perth, WA)".
// InMonth is false for leading/trailing cells belonging to adjacent months;
// those cells carry no items.
type PlannerDay struct {
	Date      time.Time
	Day       int
	InMonth   bool
	Planned   []string
	Completed []string
}

// PlannerMonth is the fully assembled calendar grid for one month:
// whole weeks (each 7 days) covering the month, plus the month-level
// planned/completed totals shown in the header.
type PlannerMonth struct {
	Year           int
	Month          int
	MonthName      string
	WeekdayNames   []string
	Weeks          [][]PlannerDay
	PlannedTotal   int
	CompletedTotal int
}
