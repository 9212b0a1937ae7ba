// Package repo contains all database access logic for the CVM Planner API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// TerritoryRepo defines the persistence operations for Territories.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TerritoryRepo interface {
	// List returns all territories ordered by name.
	List(ctx context.Context) ([]domain.Territory, error)

	// GetByName retrieves a territory by its unique name.
	// Returns domain.ErrNotFound if the name is unknown.
	GetByName(ctx context.Context, name string) (domain.Territory, error)

	// UpsertByName returns the territory with the given name, creating it if
	// it does not exist yet. Names are unique, so concurrent upserts converge
	// on the same row.
	UpsertByName(ctx context.Context, name string) (domain.Territory, error)

	// Delete removes a territory by ID. Customers referencing it keep a NULL
	// territory. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTerritoryRepo is the Postgres implementation of TerritoryRepo.
type pgTerritoryRepo struct {
	db db
}

// NewTerritoryRepo constructs a TerritoryRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTerritoryRepo(db db) TerritoryRepo {
	return &pgTerritoryRepo{db: db}
}

func (r *pgTerritoryRepo) List(ctx context.Context) ([]domain.Territory, error) {
	const q = `
		SELECT id, name
		FROM territories
		ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TerritoryRepo.List: %w", err)
	}
	defer rows.Close()

	var territories []domain.Territory
	for rows.Next() {
		t, err := scanTerritory(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TerritoryRepo.List: scan: %w", err)
		}
		territories = append(territories, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TerritoryRepo.List: rows: %w", err)
	}

	return territories, nil
}

func (r *pgTerritoryRepo) GetByName(ctx context.Context, name string) (domain.Territory, error) {
	const q = `
		SELECT id, name
		FROM territories
		WHERE name = @name`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name})
	result, err := scanTerritory(row)
	if err != nil {
		return domain.Territory{}, fmt.Errorf("repo.TerritoryRepo.GetByName: %w", err)
	}
	return result, nil
}

func (r *pgTerritoryRepo) UpsertByName(ctx context.Context, name string) (domain.Territory, error) {
	const q = `
		INSERT INTO territories (name)
		VALUES (@name)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name})
	result, err := scanTerritory(row)
	if err != nil {
		return domain.Territory{}, fmt.Errorf("repo.TerritoryRepo.UpsertByName: %w", err)
	}
	return result, nil
}

func (r *pgTerritoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM territories WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TerritoryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TerritoryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanTerritory(s scanner) (domain.Territory, error) {
	var (
		t  domain.Territory
		id pgtype.UUID
	)

	err := s.Scan(&id, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Territory{}, domain.ErrNotFound
		}
		return domain.Territory{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
