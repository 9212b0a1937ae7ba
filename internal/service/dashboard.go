package service

import (
	"context"
	"time"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
)

// upcomingLimit caps the dashboard's "next visits" list.
const upcomingLimit = 15

// DashboardService assembles the dashboard overview.
type DashboardService struct {
	dashboard repo.DashboardRepo
	events    repo.EventRepo

	// now is swappable for tests.
	now func() time.Time
}

// NewDashboardService constructs a DashboardService backed by the provided repos.
func NewDashboardService(dashboard repo.DashboardRepo, events repo.EventRepo) *DashboardService {
	return &DashboardService{dashboard: dashboard, events: events, now: time.Now}
}

// DashboardOverview is the full dashboard payload: entity counts plus the next
// few upcoming events.
type DashboardOverview struct {
	Counts   domain.DashboardCounts
	Upcoming []domain.UpcomingEvent
}

// Overview returns the entity counts and the next upcoming events from today.
func (s *DashboardService) Overview(ctx context.Context) (DashboardOverview, error) {
	counts, err := s.dashboard.Counts(ctx)
	if err != nil {
		return DashboardOverview{}, err
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	records, err := s.events.Upcoming(ctx, today, upcomingLimit)
	if err != nil {
		return DashboardOverview{}, err
	}

	upcoming := make([]domain.UpcomingEvent, 0, len(records))
	for _, rec := range records {
		name := rec.CustomerName
		if name == "" {
			name = "N/A"
		}
		upcoming = append(upcoming, domain.UpcomingEvent{
			EventDate:    rec.EventDate,
			EventType:    rec.EventType,
			CustomerName: name,
			Status:       rec.Status,
		})
	}

	return DashboardOverview{Counts: counts, Upcoming: upcoming}, nil
}
