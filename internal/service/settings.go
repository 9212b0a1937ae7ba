package service

import (
	"context"
	"fmt"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
)

// SettingsService implements business logic for the calendar settings.
type SettingsService struct {
	repo repo.SettingsRepo
}

// NewSettingsService constructs a SettingsService backed by the provided repo.
func NewSettingsService(r repo.SettingsRepo) *SettingsService {
	return &SettingsService{repo: r}
}

// Get returns the calendar settings.
func (s *SettingsService) Get(ctx context.Context) (domain.CalendarSettings, error) {
	return s.repo.Get(ctx)
}

// Update validates and overwrites the calendar settings.
func (s *SettingsService) Update(ctx context.Context, in domain.CalendarSettings) (domain.CalendarSettings, error) {
	if in.CalendarYear < 2000 || in.CalendarYear > 2100 {
		return domain.CalendarSettings{}, fmt.Errorf("calendar_year %d out of range: %w", in.CalendarYear, domain.ErrValidation)
	}
	if in.WeekStartDay != domain.WeekStartMonday && in.WeekStartDay != domain.WeekStartSunday {
		return domain.CalendarSettings{}, fmt.Errorf("week_start_day must be %q or %q: %w",
			domain.WeekStartMonday, domain.WeekStartSunday, domain.ErrValidation)
	}
	return s.repo.Update(ctx, in)
}
