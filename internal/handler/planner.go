package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// plannerDayJSON is one calendar cell. Planned and Completed are rendered
// item lines, e.g. "C045 Acme Stores (Perth, WA)".
type plannerDayJSON struct {
	Date      openapi_types.Date `json:"date"`
	Day       int                `json:"day"`
	InMonth   bool               `json:"in_month"`
	Planned   []string           `json:"planned"`
	Completed []string           `json:"completed"`
}

// plannerMonthJSON is the assembled calendar grid for one month.
type plannerMonthJSON struct {
	Year           int                `json:"year"`
	Month          int                `json:"month"`
	MonthName      string             `json:"month_name"`
	WeekdayNames   []string           `json:"weekday_names"`
	Weeks          [][]plannerDayJSON `json:"weeks"`
	PlannedTotal   int                `json:"planned_total"`
	CompletedTotal int                `json:"completed_total"`
}

// getPlannerMonth handles GET /api/planner?year=&month=&territory_id=.
func (s *Server) getPlannerMonth(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	territoryID, err := queryUUID(r, "territory_id")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	grid, err := s.deps.Planner.Month(r.Context(), year, month, territoryID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plannerMonthToJSON(grid))
}

func plannerMonthToJSON(m domain.PlannerMonth) plannerMonthJSON {
	out := plannerMonthJSON{
		Year:           m.Year,
		Month:          m.Month,
		MonthName:      m.MonthName,
		WeekdayNames:   m.WeekdayNames,
		Weeks:          make([][]plannerDayJSON, len(m.Weeks)),
		PlannedTotal:   m.PlannedTotal,
		CompletedTotal: m.CompletedTotal,
	}
	for i, week := range m.Weeks {
		days := make([]plannerDayJSON, len(week))
		for j, day := range week {
			days[j] = plannerDayJSON{
				Date:      openapi_types.Date{Time: day.Date},
				Day:       day.Day,
				InMonth:   day.InMonth,
				Planned:   day.Planned,
				Completed: day.Completed,
			}
		}
		out.Weeks[i] = days
	}
	return out
}
