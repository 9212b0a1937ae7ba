package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// CvmRepo defines the persistence operations for the CVM month grid.
type CvmRepo interface {
	// GridRows returns one row per customer for the given year: customer
	// identity columns joined with territory, a representative store sort
	// bucket, the last completed visit date, and every month entry the
	// customer has for that year. Customers with no entries still get a row.
	// A non-nil territoryID narrows to that territory's customers.
	GridRows(ctx context.Context, year int, territoryID *uuid.UUID) ([]domain.CvmCustomerRow, error)

	// EntriesForYear returns every month entry for the given year, across all
	// customers. The workbook import uses this to honor its create-only policy.
	EntriesForYear(ctx context.Context, year int) ([]domain.CvmEntry, error)

	// PlannedForMonth returns the month's entries that carry a planned date,
	// joined with customer identity and the first store's location, ordered by
	// planned date then customer name. A non-nil territoryID narrows to that
	// territory's customers.
	PlannedForMonth(ctx context.Context, year, month int, territoryID *uuid.UUID) ([]domain.CvmPlannedItem, error)

	// UpsertEntry inserts or overwrites the entry for the entry's
	// (customer, year, month) cell and returns the persisted record.
	UpsertEntry(ctx context.Context, e domain.CvmEntry) (domain.CvmEntry, error)

	// DeleteEntry removes the entry for one grid cell. Deleting a cell that
	// has no entry is not an error.
	DeleteEntry(ctx context.Context, customerID uuid.UUID, year, month int) error
}

// pgCvmRepo is the Postgres implementation of CvmRepo.
type pgCvmRepo struct {
	db db
}

// NewCvmRepo constructs a CvmRepo backed by the provided db connection.
func NewCvmRepo(db db) CvmRepo {
	return &pgCvmRepo{db: db}
}

func (r *pgCvmRepo) GridRows(ctx context.Context, year int, territoryID *uuid.UUID) ([]domain.CvmCustomerRow, error) {
	rows, err := r.gridCustomers(ctx, territoryID)
	if err != nil {
		return nil, fmt.Errorf("repo.CvmRepo.GridRows: %w", err)
	}

	entries, err := r.EntriesForYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("repo.CvmRepo.GridRows: %w", err)
	}

	byCustomer := make(map[uuid.UUID][]domain.CvmEntry, len(entries))
	for _, e := range entries {
		byCustomer[e.CustomerID] = append(byCustomer[e.CustomerID], e)
	}

	for i := range rows {
		months := make(map[int]domain.CvmEntry)
		for _, e := range byCustomer[rows[i].CustomerID] {
			months[e.Month] = e
			if e.PlannedDate != nil {
				rows[i].PlannedTotal++
			}
			if e.CompletedManual {
				rows[i].CompletedTotal++
			}
		}
		rows[i].Months = months
	}

	return rows, nil
}

// gridCustomers returns the customer identity portion of the grid, one row per
// customer ordered by cust_code.
func (r *pgCvmRepo) gridCustomers(ctx context.Context, territoryID *uuid.UUID) ([]domain.CvmCustomerRow, error) {
	const q = `
		SELECT c.id, c.cust_code, c.name, COALESCE(c.trade_name, ''),
			COALESCE(t.name, ''),
			COALESCE((
				SELECT s.sort_bucket FROM stores s
				WHERE s.customer_id = c.id AND s.sort_bucket IS NOT NULL
				ORDER BY s.created_at LIMIT 1
			), ''),
			(
				SELECT max(e.event_date) FROM visit_events e
				WHERE e.customer_id = c.id AND e.event_type = 'completed'
			)
		FROM customers c
		LEFT JOIN territories t ON t.id = c.territory_id
		WHERE (@territory_id::uuid IS NULL OR c.territory_id = @territory_id)
		ORDER BY c.cust_code`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"territory_id": territoryID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CvmCustomerRow
	for rows.Next() {
		var (
			row           domain.CvmCustomerRow
			id            pgtype.UUID
			lastCompleted pgtype.Date
		)
		err := rows.Scan(&id, &row.CustCode, &row.CustomerName, &row.TradeName,
			&row.Territory, &row.SortBucket, &lastCompleted)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row.CustomerID = uuid.UUID(id.Bytes)
		if lastCompleted.Valid {
			lc := lastCompleted.Time
			row.LastCompleted = &lc
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return result, nil
}

func (r *pgCvmRepo) EntriesForYear(ctx context.Context, year int) ([]domain.CvmEntry, error) {
	const q = `
		SELECT id, customer_id, cvm_year, cvm_month, planned_date, completed_manual, updated_at
		FROM cvm_month_entries
		WHERE cvm_year = @cvm_year`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"cvm_year": year})
	if err != nil {
		return nil, fmt.Errorf("repo.CvmRepo.EntriesForYear: %w", err)
	}
	defer rows.Close()

	var entries []domain.CvmEntry
	for rows.Next() {
		e, err := scanCvmEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return entries, nil
}

func (r *pgCvmRepo) PlannedForMonth(ctx context.Context, year, month int, territoryID *uuid.UUID) ([]domain.CvmPlannedItem, error) {
	const q = `
		SELECT c.id, c.cust_code, c.name, COALESCE(c.trade_name, ''),
			COALESCE(s.city, ''), COALESCE(s.state, ''),
			e.planned_date, e.completed_manual
		FROM cvm_month_entries e
		JOIN customers c ON c.id = e.customer_id
		LEFT JOIN LATERAL (
			SELECT st.city, st.state FROM stores st
			WHERE st.customer_id = c.id
			ORDER BY st.created_at LIMIT 1
		) s ON true
		WHERE e.cvm_year = @cvm_year
		  AND e.cvm_month = @cvm_month
		  AND e.planned_date IS NOT NULL
		  AND (@territory_id::uuid IS NULL OR c.territory_id = @territory_id)
		ORDER BY e.planned_date, c.name`

	args := pgx.NamedArgs{
		"cvm_year":     year,
		"cvm_month":    month,
		"territory_id": territoryID,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.CvmRepo.PlannedForMonth: %w", err)
	}
	defer rows.Close()

	var items []domain.CvmPlannedItem
	for rows.Next() {
		var (
			item        domain.CvmPlannedItem
			id          pgtype.UUID
			plannedDate pgtype.Date
		)
		err := rows.Scan(&id, &item.CustCode, &item.CustomerName, &item.TradeName,
			&item.City, &item.State, &plannedDate, &item.CompletedManual)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		item.CustomerID = uuid.UUID(id.Bytes)
		item.PlannedDate = plannedDate.Time
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return items, nil
}

func (r *pgCvmRepo) UpsertEntry(ctx context.Context, e domain.CvmEntry) (domain.CvmEntry, error) {
	const q = `
		INSERT INTO cvm_month_entries (customer_id, cvm_year, cvm_month, planned_date, completed_manual)
		VALUES (@customer_id, @cvm_year, @cvm_month, @planned_date, @completed_manual)
		ON CONFLICT (customer_id, cvm_year, cvm_month) DO UPDATE
		SET planned_date     = EXCLUDED.planned_date,
		    completed_manual = EXCLUDED.completed_manual,
		    updated_at       = now()
		RETURNING id, customer_id, cvm_year, cvm_month, planned_date, completed_manual, updated_at`

	args := pgx.NamedArgs{
		"customer_id":      e.CustomerID,
		"cvm_year":         e.Year,
		"cvm_month":        e.Month,
		"planned_date":     e.PlannedDate, // nil becomes NULL
		"completed_manual": e.CompletedManual,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCvmEntry(row)
	if err != nil {
		return domain.CvmEntry{}, fmt.Errorf("repo.CvmRepo.UpsertEntry: %w", err)
	}
	return result, nil
}

func (r *pgCvmRepo) DeleteEntry(ctx context.Context, customerID uuid.UUID, year, month int) error {
	const q = `
		DELETE FROM cvm_month_entries
		WHERE customer_id = @customer_id AND cvm_year = @cvm_year AND cvm_month = @cvm_month`

	args := pgx.NamedArgs{
		"customer_id": customerID,
		"cvm_year":    year,
		"cvm_month":   month,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.CvmRepo.DeleteEntry: %w", err)
	}
	return nil
}

func scanCvmEntry(s scanner) (domain.CvmEntry, error) {
	var (
		e           domain.CvmEntry
		id          pgtype.UUID
		customerID  pgtype.UUID
		plannedDate pgtype.Date
	)

	err := s.Scan(&id, &customerID, &e.Year, &e.Month, &plannedDate, &e.CompletedManual, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CvmEntry{}, domain.ErrNotFound
		}
		return domain.CvmEntry{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.CustomerID = uuid.UUID(customerID.Bytes)
	if plannedDate.Valid {
		pd := plannedDate.Time
		e.PlannedDate = &pd
	}

	return e, nil
}
