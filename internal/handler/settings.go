package handler

import (
	"net/http"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// settingsJSON is the wire form of the calendar settings, both directions.
type settingsJSON struct {
	CalendarYear int    `json:"calendar_year"`
	WeekStartDay string `json:"week_start_day"`
}

// getSettings handles GET /api/settings.
func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.deps.Settings.Get(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settingsToJSON(cfg))
}

// updateSettings handles PUT /api/settings.
func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var body settingsJSON
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	updated, err := s.deps.Settings.Update(r.Context(), domain.CalendarSettings{
		CalendarYear: body.CalendarYear,
		WeekStartDay: body.WeekStartDay,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settingsToJSON(updated))
}

func settingsToJSON(cfg domain.CalendarSettings) settingsJSON {
	return settingsJSON{
		CalendarYear: cfg.CalendarYear,
		WeekStartDay: cfg.WeekStartDay,
	}
}
