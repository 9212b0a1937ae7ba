package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
)

// CvmService implements the CVM year-grid operations.
type CvmService struct {
	repo     repo.CvmRepo
	settings repo.SettingsRepo
}

// NewCvmService constructs a CvmService backed by the provided repos.
func NewCvmService(r repo.CvmRepo, settings repo.SettingsRepo) *CvmService {
	return &CvmService{repo: r, settings: settings}
}

// CvmMonthInput is one grid-cell edit submitted from the CVM screen.
type CvmMonthInput struct {
	CustomerID      uuid.UUID
	Year            int
	Month           int // 1..12
	PlannedDate     *time.Time
	CompletedManual bool
}

// Grid returns the CVM grid for the given year, optionally narrowed to one
// territory. Year zero falls back to the calendar year from settings.
func (s *CvmService) Grid(ctx context.Context, year int, territoryID *uuid.UUID) (int, []domain.CvmCustomerRow, error) {
	if year == 0 {
		cfg, err := s.settings.Get(ctx)
		if err != nil {
			return 0, nil, err
		}
		year = cfg.CalendarYear
	}
	if year < 2000 || year > 2100 {
		return 0, nil, fmt.Errorf("year %d out of range: %w", year, domain.ErrValidation)
	}

	rows, err := s.repo.GridRows(ctx, year, territoryID)
	if err != nil {
		return 0, nil, err
	}
	return year, rows, nil
}

// SetMonth applies one cell edit and returns the resulting entry, or nil when
// the cell ends up empty.
//
// Cell semantics follow the grid UI:
//   - a planned date (with or without the completed tick) upserts the entry;
//   - a completed tick with no planned date carries no plan to complete, so
//     the tick is dropped and the cell is treated as cleared;
//   - clearing both the date and the tick deletes the entry.
func (s *CvmService) SetMonth(ctx context.Context, in CvmMonthInput) (*domain.CvmEntry, error) {
	if in.CustomerID == (uuid.UUID{}) {
		return nil, fmt.Errorf("customer_id is required: %w", domain.ErrValidation)
	}
	if in.Month < 1 || in.Month > 12 {
		return nil, fmt.Errorf("month %d out of range: %w", in.Month, domain.ErrValidation)
	}
	if in.Year < 2000 || in.Year > 2100 {
		return nil, fmt.Errorf("year %d out of range: %w", in.Year, domain.ErrValidation)
	}

	if in.PlannedDate == nil {
		// A tick without a date is dropped, leaving an empty cell either way.
		if err := s.repo.DeleteEntry(ctx, in.CustomerID, in.Year, in.Month); err != nil {
			return nil, err
		}
		return nil, nil
	}

	entry, err := s.repo.UpsertEntry(ctx, domain.CvmEntry{
		CustomerID:      in.CustomerID,
		Year:            in.Year,
		Month:           in.Month,
		PlannedDate:     in.PlannedDate,
		CompletedManual: in.CompletedManual,
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
