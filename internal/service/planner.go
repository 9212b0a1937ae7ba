package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
)

// PlannerService assembles the printable calendar month grid.
type PlannerService struct {
	events   repo.EventRepo
	cvm      repo.CvmRepo
	settings repo.SettingsRepo
}

// NewPlannerService constructs a PlannerService backed by the provided repos.
func NewPlannerService(events repo.EventRepo, cvm repo.CvmRepo, settings repo.SettingsRepo) *PlannerService {
	return &PlannerService{events: events, cvm: cvm, settings: settings}
}

// weekdayNames in Monday-first order; rotated when the week starts on Sunday.
var weekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Month builds the calendar grid for one month, optionally narrowed to one
// territory. Year zero falls back to the calendar year from settings; month
// zero falls back to the current month.
//
// Day cells merge two sources: visit events dated inside the month, and CVM
// month entries whose planned date falls inside it. Each day lists planned and
// completed items separately, and completed wins: a customer completed on a
// date (by a completed event or a manual CVM tick) never also shows a planned
// item there.
func (s *PlannerService) Month(ctx context.Context, year, month int, territoryID *uuid.UUID) (domain.PlannerMonth, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return domain.PlannerMonth{}, err
	}

	if year == 0 {
		year = cfg.CalendarYear
	}
	if month == 0 {
		month = int(time.Now().Month())
	}
	if month < 1 || month > 12 {
		return domain.PlannerMonth{}, fmt.Errorf("month %d out of range: %w", month, domain.ErrValidation)
	}
	if year < 2000 || year > 2100 {
		return domain.PlannerMonth{}, fmt.Errorf("year %d out of range: %w", year, domain.ErrValidation)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	records, err := s.events.ListRecords(ctx, domain.EventFilter{Start: &first, End: &last, TerritoryID: territoryID})
	if err != nil {
		return domain.PlannerMonth{}, err
	}

	items, err := s.cvm.PlannedForMonth(ctx, year, month, territoryID)
	if err != nil {
		return domain.PlannerMonth{}, err
	}

	byDay := groupByDay(records)
	cvmByDay := groupCvmByDay(items)

	result := domain.PlannerMonth{
		Year:         year,
		Month:        month,
		MonthName:    first.Month().String(),
		WeekdayNames: orderedWeekdays(cfg.WeekStartDay),
	}

	// Walk whole weeks from the week containing the 1st through the week
	// containing the last day of the month.
	cursor := startOfWeek(first, cfg.WeekStartDay)
	for !cursor.After(last) {
		week := make([]domain.PlannerDay, 0, 7)
		for i := 0; i < 7; i++ {
			day := cursor.AddDate(0, 0, i)
			cell := domain.PlannerDay{
				Date:    day,
				Day:     day.Day(),
				InMonth: day.Month() == first.Month() && day.Year() == year,
			}
			if cell.InMonth {
				cell.Planned, cell.Completed = renderDay(byDay[day.Day()], cvmByDay[day.Day()])
				result.PlannedTotal += len(cell.Planned)
				result.CompletedTotal += len(cell.Completed)
			}
			week = append(week, cell)
		}
		result.Weeks = append(result.Weeks, week)
		cursor = cursor.AddDate(0, 0, 7)
	}

	return result, nil
}

// groupByDay buckets records by day-of-month. The filter window guarantees all
// records fall inside one month.
func groupByDay(records []domain.EventRecord) map[int][]domain.EventRecord {
	byDay := make(map[int][]domain.EventRecord)
	for _, rec := range records {
		d := rec.EventDate.Day()
		byDay[d] = append(byDay[d], rec)
	}
	return byDay
}

// groupCvmByDay buckets CVM month entries by planned-date day-of-month.
func groupCvmByDay(items []domain.CvmPlannedItem) map[int][]domain.CvmPlannedItem {
	byDay := make(map[int][]domain.CvmPlannedItem)
	for _, item := range items {
		d := item.PlannedDate.Day()
		byDay[d] = append(byDay[d], item)
	}
	return byDay
}

// renderDay merges one day's event records and CVM entries into the planned
// and completed item lists. Completed wins: a customer completed that day
// (completed event or manual CVM tick) suppresses the same customer's planned
// items. When a customer has both an event and a CVM entry on the date, the
// event line is kept and the CVM line dropped.
func renderDay(records []domain.EventRecord, items []domain.CvmPlannedItem) (planned, completed []string) {
	completedByEvent := make(map[uuid.UUID]bool)
	eventCustomers := make(map[uuid.UUID]bool)
	for _, rec := range records {
		if rec.CustomerID == nil {
			continue
		}
		eventCustomers[*rec.CustomerID] = true
		if rec.EventType == domain.EventTypeCompleted {
			completedByEvent[*rec.CustomerID] = true
		}
	}

	completedByCvm := make(map[uuid.UUID]bool)
	for _, item := range items {
		if item.CompletedManual {
			completedByCvm[item.CustomerID] = true
		}
	}

	for _, rec := range records {
		text := itemText(rec)
		switch rec.EventType {
		case domain.EventTypeCompleted:
			completed = append(completed, text)
		case domain.EventTypePlanned:
			if rec.CustomerID != nil && completedByEvent[*rec.CustomerID] {
				continue
			}
			if rec.CustomerID != nil && completedByCvm[*rec.CustomerID] {
				completed = append(completed, text)
				continue
			}
			planned = append(planned, text)
		default:
			planned = append(planned, text)
		}
	}

	for _, item := range items {
		if eventCustomers[item.CustomerID] {
			continue
		}
		text := cvmItemText(item)
		if item.CompletedManual {
			completed = append(completed, text)
		} else {
			planned = append(planned, text)
		}
	}

	return planned, completed
}

// itemText renders one event as a calendar cell line, e.g.
// "C045 Acme Stores (Perth, WA)". Events without a customer fall back to the
// action text or a humanized event type.
func itemText(rec domain.EventRecord) string {
	if rec.CustomerName == "" {
		if rec.Action != "" {
			return rec.Action
		}
		return strings.ReplaceAll(rec.EventType, "_", " ")
	}

	var b strings.Builder
	if rec.CustCode != "" {
		b.WriteString(rec.CustCode)
		b.WriteString(" ")
	}
	b.WriteString(rec.CustomerName)

	var loc []string
	if rec.City != "" {
		loc = append(loc, rec.City)
	}
	if rec.State != "" {
		loc = append(loc, rec.State)
	}
	if len(loc) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(loc, ", "))
		b.WriteString(")")
	}
	return b.String()
}

// cvmItemText renders a CVM entry with the same cell-line format as events.
func cvmItemText(item domain.CvmPlannedItem) string {
	return itemText(domain.EventRecord{
		CustCode:     item.CustCode,
		CustomerName: item.CustomerName,
		City:         item.City,
		State:        item.State,
	})
}

// startOfWeek returns the most recent week-start day on or before t.
func startOfWeek(t time.Time, weekStart string) time.Time {
	start := time.Monday
	if weekStart == domain.WeekStartSunday {
		start = time.Sunday
	}
	offset := (int(t.Weekday()) - int(start) + 7) % 7
	return t.AddDate(0, 0, -offset)
}

// orderedWeekdays returns the weekday header labels in grid order.
func orderedWeekdays(weekStart string) []string {
	if weekStart == domain.WeekStartSunday {
		return []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	}
	return append([]string(nil), weekdayNames...)
}
