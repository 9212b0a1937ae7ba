// Package service contains the business logic for the CVM Planner API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
)

// TerritoryService implements business logic for Territory operations.
// Territories are created implicitly by name from the customer form and the
// workbook import, so there is no explicit Create.
type TerritoryService struct {
	repo repo.TerritoryRepo
}

// NewTerritoryService constructs a TerritoryService backed by the provided repo.
func NewTerritoryService(r repo.TerritoryRepo) *TerritoryService {
	return &TerritoryService{repo: r}
}

// List returns all territories ordered by name.
func (s *TerritoryService) List(ctx context.Context) ([]domain.Territory, error) {
	return s.repo.List(ctx)
}

// Delete removes a territory. Customers keep running with no territory.
func (s *TerritoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == (uuid.UUID{}) {
		return fmt.Errorf("territory id is required: %w", domain.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
