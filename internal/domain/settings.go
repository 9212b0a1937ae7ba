package domain

// Week start options for the calendar grid.
const (
	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"
)

// CalendarSettings is the single-row configuration for the planner calendar.
// CalendarYear is the default year shown by the CVM grid and calendar pages.
type CalendarSettings struct {
	CalendarYear int
	WeekStartDay string // "monday" or "sunday"
}
