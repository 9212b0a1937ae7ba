package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// SettingsRepo defines the persistence operations for the single-row calendar
// settings table. The row is seeded by the initial migration.
type SettingsRepo interface {
	// Get returns the calendar settings.
	Get(ctx context.Context) (domain.CalendarSettings, error)

	// Update overwrites the calendar settings and returns the updated record.
	Update(ctx context.Context, s domain.CalendarSettings) (domain.CalendarSettings, error)
}

// pgSettingsRepo is the Postgres implementation of SettingsRepo.
type pgSettingsRepo struct {
	db db
}

// NewSettingsRepo constructs a SettingsRepo backed by the provided db connection.
func NewSettingsRepo(db db) SettingsRepo {
	return &pgSettingsRepo{db: db}
}

func (r *pgSettingsRepo) Get(ctx context.Context) (domain.CalendarSettings, error) {
	const q = `SELECT calendar_year, week_start_day FROM calendar_settings WHERE id = 1`

	var s domain.CalendarSettings
	err := r.db.QueryRow(ctx, q).Scan(&s.CalendarYear, &s.WeekStartDay)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CalendarSettings{}, fmt.Errorf("repo.SettingsRepo.Get: %w", domain.ErrNotFound)
		}
		return domain.CalendarSettings{}, fmt.Errorf("repo.SettingsRepo.Get: %w", err)
	}
	return s, nil
}

func (r *pgSettingsRepo) Update(ctx context.Context, s domain.CalendarSettings) (domain.CalendarSettings, error) {
	const q = `
		UPDATE calendar_settings
		SET calendar_year = @calendar_year, week_start_day = @week_start_day
		WHERE id = 1
		RETURNING calendar_year, week_start_day`

	args := pgx.NamedArgs{
		"calendar_year":  s.CalendarYear,
		"week_start_day": s.WeekStartDay,
	}

	var result domain.CalendarSettings
	err := r.db.QueryRow(ctx, q, args).Scan(&result.CalendarYear, &result.WeekStartDay)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CalendarSettings{}, fmt.Errorf("repo.SettingsRepo.Update: %w", domain.ErrNotFound)
		}
		return domain.CalendarSettings{}, fmt.Errorf("repo.SettingsRepo.Update: %w", err)
	}
	return result, nil
}
