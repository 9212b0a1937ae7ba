package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
)

// EventService implements business logic for VisitEvent operations.
type EventService struct {
	repo repo.EventRepo
}

// NewEventService constructs an EventService backed by the provided repo.
func NewEventService(r repo.EventRepo) *EventService {
	return &EventService{repo: r}
}

// Create validates and persists a new visit event.
func (s *EventService) Create(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error) {
	if err := validateEvent(&e); err != nil {
		return domain.VisitEvent{}, err
	}
	return s.repo.Create(ctx, e)
}

// GetByID returns a single event by ID.
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (domain.VisitEvent, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the denormalized event records matching the filter, ordered by
// date ascending.
func (s *EventService) List(ctx context.Context, f domain.EventFilter) ([]domain.EventRecord, error) {
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return nil, fmt.Errorf("end date before start date: %w", domain.ErrValidation)
	}
	return s.repo.ListRecords(ctx, f)
}

// Update validates and updates an existing event.
func (s *EventService) Update(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error) {
	if err := validateEvent(&e); err != nil {
		return domain.VisitEvent{}, err
	}
	return s.repo.Update(ctx, e)
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validateEvent(e *domain.VisitEvent) error {
	e.EventType = strings.TrimSpace(e.EventType)
	if !domain.IsValidEventType(e.EventType) {
		return fmt.Errorf("event_type %q is not one of %s: %w",
			e.EventType, strings.Join(domain.ValidEventTypes, ", "), domain.ErrValidation)
	}
	if e.EventDate.IsZero() {
		return fmt.Errorf("event_date is required: %w", domain.ErrValidation)
	}
	return nil
}
