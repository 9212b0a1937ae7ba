package repo

import (
	"context"
	"fmt"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// DashboardRepo exposes the aggregate counts shown on the dashboard.
// Upcoming events come from EventRepo.Upcoming.
type DashboardRepo interface {
	// Counts returns the total number of customers, stores, and visit events.
	Counts(ctx context.Context) (domain.DashboardCounts, error)
}

// pgDashboardRepo is the Postgres implementation of DashboardRepo.
type pgDashboardRepo struct {
	db db
}

// NewDashboardRepo constructs a DashboardRepo backed by the provided db connection.
func NewDashboardRepo(db db) DashboardRepo {
	return &pgDashboardRepo{db: db}
}

func (r *pgDashboardRepo) Counts(ctx context.Context) (domain.DashboardCounts, error) {
	const q = `
		SELECT
			(SELECT count(*) FROM customers),
			(SELECT count(*) FROM stores),
			(SELECT count(*) FROM visit_events)`

	var c domain.DashboardCounts
	if err := r.db.QueryRow(ctx, q).Scan(&c.Customers, &c.Stores, &c.Events); err != nil {
		return domain.DashboardCounts{}, fmt.Errorf("repo.DashboardRepo.Counts: %w", err)
	}
	return c, nil
}
