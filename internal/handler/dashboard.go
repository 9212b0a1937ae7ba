package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/visitops/cvm-planner/backend/internal/service"
)

// dashboardJSON is the dashboard payload: stat-card counts plus the next
// upcoming visits.
type dashboardJSON struct {
	Counts   dashboardCountsJSON `json:"counts"`
	Upcoming []upcomingJSON      `json:"upcoming"`
}

type dashboardCountsJSON struct {
	Customers int64 `json:"customers"`
	Stores    int64 `json:"stores"`
	Events    int64 `json:"events"`
}

type upcomingJSON struct {
	EventDate    openapi_types.Date `json:"event_date"`
	EventType    string             `json:"event_type"`
	CustomerName string             `json:"customer_name"`
	Status       string             `json:"status,omitempty"`
}

// getDashboard handles GET /api/dashboard.
func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := s.deps.Dashboard.Overview(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardToJSON(overview))
}

func dashboardToJSON(o service.DashboardOverview) dashboardJSON {
	out := dashboardJSON{
		Counts: dashboardCountsJSON{
			Customers: o.Counts.Customers,
			Stores:    o.Counts.Stores,
			Events:    o.Counts.Events,
		},
		Upcoming: make([]upcomingJSON, len(o.Upcoming)),
	}
	for i, u := range o.Upcoming {
		out.Upcoming[i] = upcomingJSON{
			EventDate:    openapi_types.Date{Time: u.EventDate},
			EventType:    u.EventType,
			CustomerName: u.CustomerName,
			Status:       u.Status,
		}
	}
	return out
}
