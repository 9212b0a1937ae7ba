package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
)

// CustomerService implements business logic for Customer operations.
type CustomerService struct {
	repo        repo.CustomerRepo
	territories repo.TerritoryRepo
}

// NewCustomerService constructs a CustomerService backed by the provided repos.
// The territory repo is needed because the customer form submits a territory
// by name, creating it on first use.
func NewCustomerService(r repo.CustomerRepo, territories repo.TerritoryRepo) *CustomerService {
	return &CustomerService{repo: r, territories: territories}
}

// Create validates and persists a new customer. territoryName is resolved to a
// territory row, created on demand; blank means unassigned.
func (s *CustomerService) Create(ctx context.Context, c domain.Customer, territoryName string) (domain.Customer, error) {
	if err := s.prepare(ctx, &c, territoryName); err != nil {
		return domain.Customer{}, err
	}
	return s.repo.Create(ctx, c)
}

// GetByID returns a single customer by ID.
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns customers with their territory names, optionally narrowed by a
// case-insensitive search over code and name and sliced to the requested page.
func (s *CustomerService) List(ctx context.Context, search string, page domain.PaginationParams) ([]domain.CustomerRecord, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), page)
}

// Update validates and updates an existing customer.
func (s *CustomerService) Update(ctx context.Context, c domain.Customer, territoryName string) (domain.Customer, error) {
	if err := s.prepare(ctx, &c, territoryName); err != nil {
		return domain.Customer{}, err
	}
	return s.repo.Update(ctx, c)
}

// Delete removes a customer together with its events and CVM entries.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// prepare trims and validates the writable fields and resolves the territory.
func (s *CustomerService) prepare(ctx context.Context, c *domain.Customer, territoryName string) error {
	c.CustCode = strings.TrimSpace(c.CustCode)
	c.Name = strings.TrimSpace(c.Name)

	if c.CustCode == "" {
		return fmt.Errorf("cust_code is required: %w", domain.ErrValidation)
	}
	if c.Name == "" {
		return fmt.Errorf("name is required: %w", domain.ErrValidation)
	}

	if name := strings.TrimSpace(territoryName); name != "" {
		t, err := s.territories.UpsertByName(ctx, name)
		if err != nil {
			return err
		}
		c.TerritoryID = &t.ID
	} else {
		c.TerritoryID = nil
	}

	return nil
}
