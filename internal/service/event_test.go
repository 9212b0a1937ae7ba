package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
	"github.com/visitops/cvm-planner/backend/internal/service"
)

// mockEventRepo is a hand-written test double for repo.EventRepo.
type mockEventRepo struct {
	create      func(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.VisitEvent, error)
	listRecords func(ctx context.Context, f domain.EventFilter) ([]domain.EventRecord, error)
	upcoming    func(ctx context.Context, from time.Time, limit int) ([]domain.EventRecord, error)
	update      func(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockEventRepo) Create(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error) {
	return m.create(ctx, e)
}
func (m *mockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.VisitEvent, error) {
	return m.getByID(ctx, id)
}
func (m *mockEventRepo) ListRecords(ctx context.Context, f domain.EventFilter) ([]domain.EventRecord, error) {
	return m.listRecords(ctx, f)
}
func (m *mockEventRepo) Upcoming(ctx context.Context, from time.Time, limit int) ([]domain.EventRecord, error) {
	return m.upcoming(ctx, from, limit)
}
func (m *mockEventRepo) Update(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error) {
	return m.update(ctx, e)
}
func (m *mockEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.EventRepo = (*mockEventRepo)(nil)

func validEvent() domain.VisitEvent {
	return domain.VisitEvent{
		EventType: domain.EventTypePlanned,
		EventDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func echoEventRepo() *mockEventRepo {
	return &mockEventRepo{
		create: func(_ context.Context, e domain.VisitEvent) (domain.VisitEvent, error) { return e, nil },
		update: func(_ context.Context, e domain.VisitEvent) (domain.VisitEvent, error) { return e, nil },
	}
}

func TestEventService_Create_Valid(t *testing.T) {
	svc := service.NewEventService(echoEventRepo())

	got, err := svc.Create(context.Background(), validEvent())

	require.NoError(t, err)
	assert.Equal(t, domain.EventTypePlanned, got.EventType)
}

func TestEventService_Create_UnknownType(t *testing.T) {
	svc := service.NewEventService(echoEventRepo())

	e := validEvent()
	e.EventType = "meeting"

	_, err := svc.Create(context.Background(), e)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_Create_TypeTrimmed(t *testing.T) {
	svc := service.NewEventService(echoEventRepo())

	e := validEvent()
	e.EventType = "  planned  "

	got, err := svc.Create(context.Background(), e)

	require.NoError(t, err)
	assert.Equal(t, domain.EventTypePlanned, got.EventType)
}

func TestEventService_Create_MissingDate(t *testing.T) {
	svc := service.NewEventService(echoEventRepo())

	e := validEvent()
	e.EventDate = time.Time{}

	_, err := svc.Create(context.Background(), e)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_List_RejectsInvertedWindow(t *testing.T) {
	svc := service.NewEventService(&mockEventRepo{})

	start := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.List(context.Background(), domain.EventFilter{Start: &start, End: &end})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_List_PassesFilterThrough(t *testing.T) {
	var gotFilter domain.EventFilter
	events := &mockEventRepo{
		listRecords: func(_ context.Context, f domain.EventFilter) ([]domain.EventRecord, error) {
			gotFilter = f
			return nil, nil
		},
	}
	svc := service.NewEventService(events)

	tid := uuid.New()
	_, err := svc.List(context.Background(), domain.EventFilter{TerritoryID: &tid, Status: "Planned"})

	require.NoError(t, err)
	require.NotNil(t, gotFilter.TerritoryID)
	assert.Equal(t, tid, *gotFilter.TerritoryID)
	assert.Equal(t, "Planned", gotFilter.Status)
}
