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

// StoreRepo defines the persistence operations for Stores.
type StoreRepo interface {
	// Create inserts a new store and returns the persisted record.
	Create(ctx context.Context, s domain.Store) (domain.Store, error)

	// GetByID retrieves a single store by its UUID primary key.
	// Returns domain.ErrNotFound if no store with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error)

	// List returns stores joined with their customer code and name, ordered by
	// customer code then city. A non-zero customerID narrows to one customer.
	List(ctx context.Context, customerID *uuid.UUID) ([]domain.StoreRecord, error)

	// Update overwrites the mutable fields of an existing store and returns the
	// updated record. Returns domain.ErrNotFound if the ID is unknown.
	Update(ctx context.Context, s domain.Store) (domain.Store, error)

	// Delete removes a store by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgStoreRepo is the Postgres implementation of StoreRepo.
type pgStoreRepo struct {
	db db
}

// NewStoreRepo constructs a StoreRepo backed by the provided db connection.
func NewStoreRepo(db db) StoreRepo {
	return &pgStoreRepo{db: db}
}

const storeColumns = `id, customer_id, address_1, address_2, city, state, postcode, country,
	main_contact, owner_name, owner_phone, owner_email, manager_name, store_phone, store_email,
	marketing_name, marketing_phone, marketing_email, accounting_name, accounting_phone,
	accounting_email, sort_bucket, notes, created_at`

func (r *pgStoreRepo) Create(ctx context.Context, s domain.Store) (domain.Store, error) {
	const q = `
		INSERT INTO stores (customer_id, address_1, address_2, city, state, postcode, country,
			main_contact, owner_name, owner_phone, owner_email, manager_name, store_phone,
			store_email, marketing_name, marketing_phone, marketing_email, accounting_name,
			accounting_phone, accounting_email, sort_bucket, notes)
		VALUES (@customer_id, @address_1, @address_2, @city, @state, @postcode, @country,
			@main_contact, @owner_name, @owner_phone, @owner_email, @manager_name, @store_phone,
			@store_email, @marketing_name, @marketing_phone, @marketing_email, @accounting_name,
			@accounting_phone, @accounting_email, @sort_bucket, @notes)
		RETURNING ` + storeColumns

	row := r.db.QueryRow(ctx, q, storeArgs(s))
	result, err := scanStore(row)
	if err != nil {
		return domain.Store{}, fmt.Errorf("repo.StoreRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStoreRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error) {
	const q = `
		SELECT ` + storeColumns + `
		FROM stores
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanStore(row)
	if err != nil {
		return domain.Store{}, fmt.Errorf("repo.StoreRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgStoreRepo) List(ctx context.Context, customerID *uuid.UUID) ([]domain.StoreRecord, error) {
	const q = `
		SELECT s.id, s.customer_id, s.address_1, s.address_2, s.city, s.state, s.postcode,
			s.country, s.main_contact, s.owner_name, s.owner_phone, s.owner_email,
			s.manager_name, s.store_phone, s.store_email, s.marketing_name, s.marketing_phone,
			s.marketing_email, s.accounting_name, s.accounting_phone, s.accounting_email,
			s.sort_bucket, s.notes, s.created_at,
			COALESCE(c.cust_code, ''), COALESCE(c.name, '')
		FROM stores s
		LEFT JOIN customers c ON c.id = s.customer_id
		WHERE @customer_id::uuid IS NULL OR s.customer_id = @customer_id
		ORDER BY COALESCE(c.cust_code, ''), s.city`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"customer_id": customerID})
	if err != nil {
		return nil, fmt.Errorf("repo.StoreRepo.List: %w", err)
	}
	defer rows.Close()

	var records []domain.StoreRecord
	for rows.Next() {
		var rec domain.StoreRecord
		rec.Store, err = scanStoreWith(rows, &rec.CustCode, &rec.CustomerName)
		if err != nil {
			return nil, fmt.Errorf("repo.StoreRepo.List: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StoreRepo.List: rows: %w", err)
	}

	return records, nil
}

func (r *pgStoreRepo) Update(ctx context.Context, s domain.Store) (domain.Store, error) {
	const q = `
		UPDATE stores
		SET customer_id      = @customer_id,
		    address_1        = @address_1,
		    address_2        = @address_2,
		    city             = @city,
		    state            = @state,
		    postcode         = @postcode,
		    country          = @country,
		    main_contact     = @main_contact,
		    owner_name       = @owner_name,
		    owner_phone      = @owner_phone,
		    owner_email      = @owner_email,
		    manager_name     = @manager_name,
		    store_phone      = @store_phone,
		    store_email      = @store_email,
		    marketing_name   = @marketing_name,
		    marketing_phone  = @marketing_phone,
		    marketing_email  = @marketing_email,
		    accounting_name  = @accounting_name,
		    accounting_phone = @accounting_phone,
		    accounting_email = @accounting_email,
		    sort_bucket      = @sort_bucket,
		    notes            = @notes
		WHERE id = @id
		RETURNING ` + storeColumns

	args := storeArgs(s)
	args["id"] = s.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanStore(row)
	if err != nil {
		return domain.Store{}, fmt.Errorf("repo.StoreRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgStoreRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM stores WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.StoreRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StoreRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func storeArgs(s domain.Store) pgx.NamedArgs {
	return pgx.NamedArgs{
		"customer_id":      s.CustomerID,
		"address_1":        s.Address1,
		"address_2":        s.Address2,
		"city":             s.City,
		"state":            s.State,
		"postcode":         s.Postcode,
		"country":          s.Country,
		"main_contact":     s.MainContact,
		"owner_name":       s.OwnerName,
		"owner_phone":      s.OwnerPhone,
		"owner_email":      s.OwnerEmail,
		"manager_name":     s.ManagerName,
		"store_phone":      s.StorePhone,
		"store_email":      s.StoreEmail,
		"marketing_name":   s.MarketingName,
		"marketing_phone":  s.MarketingPhone,
		"marketing_email":  s.MarketingEmail,
		"accounting_name":  s.AccountingName,
		"accounting_phone": s.AccountingPhone,
		"accounting_email": s.AccountingEmail,
		"sort_bucket":      s.SortBucket,
		"notes":            s.Notes,
	}
}

func scanStore(s scanner) (domain.Store, error) {
	return scanStoreWith(s)
}

// scanStoreWith maps a database row into a domain.Store, appending any extra
// scan targets (for joined columns) after the store columns.
func scanStoreWith(s scanner, extra ...any) (domain.Store, error) {
	var (
		st         domain.Store
		id         pgtype.UUID
		customerID pgtype.UUID
		text       [21]pgtype.Text
	)

	dest := []any{&id, &customerID}
	for i := range text {
		dest = append(dest, &text[i])
	}
	dest = append(dest, &st.CreatedAt)
	dest = append(dest, extra...)

	err := s.Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Store{}, domain.ErrNotFound
		}
		return domain.Store{}, err
	}

	st.ID = uuid.UUID(id.Bytes)
	if customerID.Valid {
		cid := uuid.UUID(customerID.Bytes)
		st.CustomerID = &cid
	}
	fields := []*string{
		&st.Address1, &st.Address2, &st.City, &st.State, &st.Postcode, &st.Country,
		&st.MainContact, &st.OwnerName, &st.OwnerPhone, &st.OwnerEmail,
		&st.ManagerName, &st.StorePhone, &st.StoreEmail,
		&st.MarketingName, &st.MarketingPhone, &st.MarketingEmail,
		&st.AccountingName, &st.AccountingPhone, &st.AccountingEmail,
		&st.SortBucket, &st.Notes,
	}
	for i, f := range fields {
		*f = text[i].String
	}

	return st, nil
}
