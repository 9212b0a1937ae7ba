package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
)

// StoreService implements business logic for Store operations.
type StoreService struct {
	repo      repo.StoreRepo
	customers repo.CustomerRepo
}

// NewStoreService constructs a StoreService backed by the provided repos.
func NewStoreService(r repo.StoreRepo, customers repo.CustomerRepo) *StoreService {
	return &StoreService{repo: r, customers: customers}
}

// Create validates and persists a new store.
func (s *StoreService) Create(ctx context.Context, st domain.Store) (domain.Store, error) {
	if err := s.checkCustomer(ctx, st.CustomerID); err != nil {
		return domain.Store{}, err
	}
	return s.repo.Create(ctx, st)
}

// GetByID returns a single store by ID.
func (s *StoreService) GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns stores with their customer code and name, optionally narrowed
// to one customer.
func (s *StoreService) List(ctx context.Context, customerID *uuid.UUID) ([]domain.StoreRecord, error) {
	return s.repo.List(ctx, customerID)
}

// Update validates and updates an existing store.
func (s *StoreService) Update(ctx context.Context, st domain.Store) (domain.Store, error) {
	if err := s.checkCustomer(ctx, st.CustomerID); err != nil {
		return domain.Store{}, err
	}
	return s.repo.Update(ctx, st)
}

// Delete removes a store.
func (s *StoreService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// checkCustomer rejects a dangling customer reference with a validation error
// instead of surfacing a foreign key violation from the database.
func (s *StoreService) checkCustomer(ctx context.Context, customerID *uuid.UUID) error {
	if customerID == nil {
		return nil
	}
	if _, err := s.customers.GetByID(ctx, *customerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("customer %s does not exist: %w", customerID, domain.ErrValidation)
		}
		return err
	}
	return nil
}
