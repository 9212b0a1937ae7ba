package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// EventRepo defines the persistence operations for VisitEvents.
type EventRepo interface {
	// Create inserts a new visit event and returns the persisted record.
	Create(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error)

	// GetByID retrieves a single event by its UUID primary key.
	// Returns domain.ErrNotFound if no event with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.VisitEvent, error)

	// ListRecords returns events joined with customer, territory, and store
	// location, narrowed by the filter and ordered by event_date ascending.
	// This is the feed consumed by the events screen and the report builder.
	ListRecords(ctx context.Context, f domain.EventFilter) ([]domain.EventRecord, error)

	// Upcoming returns the next events on or after the given date, ordered by
	// event_date ascending, capped at limit.
	Upcoming(ctx context.Context, from time.Time, limit int) ([]domain.EventRecord, error)

	// Update overwrites the mutable fields of an existing event and returns the
	// updated record. Returns domain.ErrNotFound if the ID is unknown.
	Update(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error)

	// Delete removes an event by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

const eventColumns = `id, customer_id, store_id, event_type, event_date, action, status,
	next_action, last_contact, notes, created_at`

// eventRecordQuery is the denormalized join behind ListRecords and Upcoming.
const eventRecordQuery = `
	SELECT e.id, e.customer_id, e.store_id, e.event_type, e.event_date, e.action, e.status,
		e.next_action, e.last_contact, e.notes, e.created_at,
		COALESCE(c.cust_code, ''), COALESCE(c.name, ''), COALESCE(t.name, ''),
		COALESCE(s.city, ''), COALESCE(s.state, '')
	FROM visit_events e
	LEFT JOIN customers c ON c.id = e.customer_id
	LEFT JOIN territories t ON t.id = c.territory_id
	LEFT JOIN stores s ON s.id = e.store_id`

func (r *pgEventRepo) Create(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error) {
	const q = `
		INSERT INTO visit_events (customer_id, store_id, event_type, event_date, action,
			status, next_action, last_contact, notes)
		VALUES (@customer_id, @store_id, @event_type, @event_date, @action,
			@status, @next_action, @last_contact, @notes)
		RETURNING ` + eventColumns

	row := r.db.QueryRow(ctx, q, eventArgs(e))
	result, err := scanEvent(row)
	if err != nil {
		return domain.VisitEvent{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.VisitEvent, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM visit_events
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanEvent(row)
	if err != nil {
		return domain.VisitEvent{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) ListRecords(ctx context.Context, f domain.EventFilter) ([]domain.EventRecord, error) {
	const q = eventRecordQuery + `
		WHERE (@start::date IS NULL OR e.event_date >= @start)
		  AND (@end::date IS NULL OR e.event_date <= @end)
		  AND (@territory_id::uuid IS NULL OR c.territory_id = @territory_id)
		  AND (@status = '' OR e.status ILIKE @status OR (e.status IS NULL AND e.event_type ILIKE @status))
		ORDER BY e.event_date, e.created_at`

	args := pgx.NamedArgs{
		"start":        f.Start,
		"end":          f.End,
		"territory_id": f.TerritoryID,
		"status":       f.Status,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListRecords: %w", err)
	}
	defer rows.Close()

	records, err := collectEventRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListRecords: %w", err)
	}
	return records, nil
}

func (r *pgEventRepo) Upcoming(ctx context.Context, from time.Time, limit int) ([]domain.EventRecord, error) {
	const q = eventRecordQuery + `
		WHERE e.event_date >= @from
		ORDER BY e.event_date, e.created_at
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"from": from, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.Upcoming: %w", err)
	}
	defer rows.Close()

	records, err := collectEventRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.Upcoming: %w", err)
	}
	return records, nil
}

func (r *pgEventRepo) Update(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error) {
	const q = `
		UPDATE visit_events
		SET customer_id  = @customer_id,
		    store_id     = @store_id,
		    event_type   = @event_type,
		    event_date   = @event_date,
		    action       = @action,
		    status       = @status,
		    next_action  = @next_action,
		    last_contact = @last_contact,
		    notes        = @notes
		WHERE id = @id
		RETURNING ` + eventColumns

	args := eventArgs(e)
	args["id"] = e.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanEvent(row)
	if err != nil {
		return domain.VisitEvent{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM visit_events WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.EventRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EventRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func collectEventRecords(rows pgx.Rows) ([]domain.EventRecord, error) {
	var records []domain.EventRecord
	for rows.Next() {
		var rec domain.EventRecord
		var err error
		rec.VisitEvent, err = scanEventWith(rows,
			&rec.CustCode, &rec.CustomerName, &rec.Territory, &rec.City, &rec.State)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return records, nil
}

func eventArgs(e domain.VisitEvent) pgx.NamedArgs {
	return pgx.NamedArgs{
		"customer_id":  e.CustomerID, // nil becomes NULL
		"store_id":     e.StoreID,
		"event_type":   e.EventType,
		"event_date":   e.EventDate,
		"action":       e.Action,
		"status":       e.Status,
		"next_action":  e.NextAction,
		"last_contact": e.LastContact,
		"notes":        e.Notes,
	}
}

func scanEvent(s scanner) (domain.VisitEvent, error) {
	return scanEventWith(s)
}

// scanEventWith maps a database row into a domain.VisitEvent, appending any
// extra scan targets (for joined columns) after the event columns.
func scanEventWith(s scanner, extra ...any) (domain.VisitEvent, error) {
	var (
		e           domain.VisitEvent
		id          pgtype.UUID
		customerID  pgtype.UUID
		storeID     pgtype.UUID
		eventDate   pgtype.Date
		action      pgtype.Text
		status      pgtype.Text
		nextAction  pgtype.Text
		lastContact pgtype.Date
		notes       pgtype.Text
	)

	dest := []any{&id, &customerID, &storeID, &e.EventType, &eventDate, &action, &status,
		&nextAction, &lastContact, &notes, &e.CreatedAt}
	dest = append(dest, extra...)

	err := s.Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.VisitEvent{}, domain.ErrNotFound
		}
		return domain.VisitEvent{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	if customerID.Valid {
		cid := uuid.UUID(customerID.Bytes)
		e.CustomerID = &cid
	}
	if storeID.Valid {
		sid := uuid.UUID(storeID.Bytes)
		e.StoreID = &sid
	}
	e.EventDate = eventDate.Time
	e.Action = action.String
	e.Status = status.String
	e.NextAction = nextAction.String
	if lastContact.Valid {
		lc := lastContact.Time
		e.LastContact = &lc
	}
	e.Notes = notes.String

	return e, nil
}
