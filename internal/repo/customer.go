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

// CustomerRepo defines the persistence operations for Customers.
type CustomerRepo interface {
	// Create inserts a new customer and returns the persisted record.
	Create(ctx context.Context, c domain.Customer) (domain.Customer, error)

	// GetByID retrieves a single customer by its UUID primary key.
	// Returns domain.ErrNotFound if no customer with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error)

	// GetByCustCode retrieves a customer by its business key.
	// Returns domain.ErrNotFound if the code is unknown.
	GetByCustCode(ctx context.Context, code string) (domain.Customer, error)

	// List returns customers joined with their territory name, ordered by
	// cust_code. A non-empty search narrows by code or name, case-insensitive.
	// A zero-value page returns the whole listing.
	List(ctx context.Context, search string, page domain.PaginationParams) ([]domain.CustomerRecord, error)

	// Update overwrites the mutable fields of an existing customer and returns
	// the updated record. Returns domain.ErrNotFound if the ID is unknown.
	Update(ctx context.Context, c domain.Customer) (domain.Customer, error)

	// Delete removes a customer by ID together with its visit events and CVM
	// entries (ON DELETE CASCADE). Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgCustomerRepo is the Postgres implementation of CustomerRepo.
type pgCustomerRepo struct {
	db db
}

// NewCustomerRepo constructs a CustomerRepo backed by the provided db connection.
func NewCustomerRepo(db db) CustomerRepo {
	return &pgCustomerRepo{db: db}
}

const customerColumns = `id, cust_code, name, trade_name, territory_id, group_name,
	group_2_iws, iws_code, old_value, old_name, cvm_notes, created_at`

func (r *pgCustomerRepo) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	const q = `
		INSERT INTO customers (cust_code, name, trade_name, territory_id, group_name,
			group_2_iws, iws_code, old_value, old_name, cvm_notes)
		VALUES (@cust_code, @name, @trade_name, @territory_id, @group_name,
			@group_2_iws, @iws_code, @old_value, @old_name, @cvm_notes)
		RETURNING ` + customerColumns

	row := r.db.QueryRow(ctx, q, customerArgs(c))
	result, err := scanCustomer(row)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("repo.CustomerRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	const q = `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanCustomer(row)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("repo.CustomerRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgCustomerRepo) GetByCustCode(ctx context.Context, code string) (domain.Customer, error) {
	const q = `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE cust_code = @cust_code`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"cust_code": code})
	result, err := scanCustomer(row)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("repo.CustomerRepo.GetByCustCode: %w", err)
	}
	return result, nil
}

func (r *pgCustomerRepo) List(ctx context.Context, search string, page domain.PaginationParams) ([]domain.CustomerRecord, error) {
	// LIMIT NULL means no limit, so a zero page limit returns everything.
	const q = `
		SELECT c.id, c.cust_code, c.name, c.trade_name, c.territory_id, c.group_name,
			c.group_2_iws, c.iws_code, c.old_value, c.old_name, c.cvm_notes, c.created_at,
			COALESCE(t.name, '')
		FROM customers c
		LEFT JOIN territories t ON t.id = c.territory_id
		WHERE @search = '' OR c.cust_code ILIKE '%' || @search || '%' OR c.name ILIKE '%' || @search || '%'
		ORDER BY c.cust_code
		LIMIT NULLIF(@limit, 0) OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"search": search,
		"limit":  page.Limit,
		"offset": page.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("repo.CustomerRepo.List: %w", err)
	}
	defer rows.Close()

	var records []domain.CustomerRecord
	for rows.Next() {
		var rec domain.CustomerRecord
		rec.Customer, err = scanCustomerWith(rows, &rec.Territory)
		if err != nil {
			return nil, fmt.Errorf("repo.CustomerRepo.List: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CustomerRepo.List: rows: %w", err)
	}

	return records, nil
}

func (r *pgCustomerRepo) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	const q = `
		UPDATE customers
		SET cust_code    = @cust_code,
		    name         = @name,
		    trade_name   = @trade_name,
		    territory_id = @territory_id,
		    group_name   = @group_name,
		    group_2_iws  = @group_2_iws,
		    iws_code     = @iws_code,
		    old_value    = @old_value,
		    old_name     = @old_name,
		    cvm_notes    = @cvm_notes
		WHERE id = @id
		RETURNING ` + customerColumns

	args := customerArgs(c)
	args["id"] = c.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCustomer(row)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("repo.CustomerRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM customers WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.CustomerRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CustomerRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func customerArgs(c domain.Customer) pgx.NamedArgs {
	return pgx.NamedArgs{
		"cust_code":    c.CustCode,
		"name":         c.Name,
		"trade_name":   c.TradeName,
		"territory_id": c.TerritoryID, // nil becomes NULL
		"group_name":   c.GroupName,
		"group_2_iws":  c.Group2IWS,
		"iws_code":     c.IWSCode,
		"old_value":    c.OldValue,
		"old_name":     c.OldName,
		"cvm_notes":    c.CvmNotes,
	}
}

func scanCustomer(s scanner) (domain.Customer, error) {
	return scanCustomerWith(s)
}

// scanCustomerWith maps a database row into a domain.Customer, appending any
// extra scan targets (for joined columns) after the customer columns.
func scanCustomerWith(s scanner, extra ...any) (domain.Customer, error) {
	var (
		c           domain.Customer
		id          pgtype.UUID
		territoryID pgtype.UUID
		tradeName   pgtype.Text
		groupName   pgtype.Text
		group2IWS   pgtype.Text
		iwsCode     pgtype.Text
		oldValue    pgtype.Text
		oldName     pgtype.Text
		cvmNotes    pgtype.Text
	)

	dest := []any{&id, &c.CustCode, &c.Name, &tradeName, &territoryID, &groupName,
		&group2IWS, &iwsCode, &oldValue, &oldName, &cvmNotes, &c.CreatedAt}
	dest = append(dest, extra...)

	err := s.Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, domain.ErrNotFound
		}
		return domain.Customer{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	if territoryID.Valid {
		tid := uuid.UUID(territoryID.Bytes)
		c.TerritoryID = &tid
	}
	c.TradeName = tradeName.String
	c.GroupName = groupName.String
	c.Group2IWS = group2IWS.String
	c.IWSCode = iwsCode.String
	c.OldValue = oldValue.String
	c.OldName = oldName.String
	c.CvmNotes = cvmNotes.String

	return c, nil
}
