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

// mockCvmRepo is a hand-written test double for repo.CvmRepo.
type mockCvmRepo struct {
	gridRows        func(ctx context.Context, year int, territoryID *uuid.UUID) ([]domain.CvmCustomerRow, error)
	entriesForYear  func(ctx context.Context, year int) ([]domain.CvmEntry, error)
	plannedForMonth func(ctx context.Context, year, month int, territoryID *uuid.UUID) ([]domain.CvmPlannedItem, error)
	upsertEntry     func(ctx context.Context, e domain.CvmEntry) (domain.CvmEntry, error)
	deleteEntry     func(ctx context.Context, customerID uuid.UUID, year, month int) error
}

func (m *mockCvmRepo) GridRows(ctx context.Context, year int, territoryID *uuid.UUID) ([]domain.CvmCustomerRow, error) {
	return m.gridRows(ctx, year, territoryID)
}
func (m *mockCvmRepo) EntriesForYear(ctx context.Context, year int) ([]domain.CvmEntry, error) {
	return m.entriesForYear(ctx, year)
}
func (m *mockCvmRepo) PlannedForMonth(ctx context.Context, year, month int, territoryID *uuid.UUID) ([]domain.CvmPlannedItem, error) {
	return m.plannedForMonth(ctx, year, month, territoryID)
}
func (m *mockCvmRepo) UpsertEntry(ctx context.Context, e domain.CvmEntry) (domain.CvmEntry, error) {
	return m.upsertEntry(ctx, e)
}
func (m *mockCvmRepo) DeleteEntry(ctx context.Context, customerID uuid.UUID, year, month int) error {
	return m.deleteEntry(ctx, customerID, year, month)
}

var _ repo.CvmRepo = (*mockCvmRepo)(nil)

// mockSettingsRepo is a hand-written test double for repo.SettingsRepo.
type mockSettingsRepo struct {
	get    func(ctx context.Context) (domain.CalendarSettings, error)
	update func(ctx context.Context, s domain.CalendarSettings) (domain.CalendarSettings, error)
}

func (m *mockSettingsRepo) Get(ctx context.Context) (domain.CalendarSettings, error) {
	return m.get(ctx)
}
func (m *mockSettingsRepo) Update(ctx context.Context, s domain.CalendarSettings) (domain.CalendarSettings, error) {
	return m.update(ctx, s)
}

var _ repo.SettingsRepo = (*mockSettingsRepo)(nil)

func settingsWith(year int, weekStart string) *mockSettingsRepo {
	return &mockSettingsRepo{
		get: func(_ context.Context) (domain.CalendarSettings, error) {
			return domain.CalendarSettings{CalendarYear: year, WeekStartDay: weekStart}, nil
		},
	}
}

func validCvmInput() service.CvmMonthInput {
	planned := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	return service.CvmMonthInput{
		CustomerID:  uuid.New(),
		Year:        2025,
		Month:       2,
		PlannedDate: &planned,
	}
}

func TestCvmService_SetMonth_UpsertsWhenDateSet(t *testing.T) {
	var upserted domain.CvmEntry
	cvm := &mockCvmRepo{
		upsertEntry: func(_ context.Context, e domain.CvmEntry) (domain.CvmEntry, error) {
			upserted = e
			return e, nil
		},
	}
	svc := service.NewCvmService(cvm, settingsWith(2025, domain.WeekStartMonday))

	in := validCvmInput()
	in.CompletedManual = true

	entry, err := svc.SetMonth(context.Background(), in)

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, in.CustomerID, upserted.CustomerID)
	assert.True(t, upserted.CompletedManual)
	require.NotNil(t, upserted.PlannedDate)
}

func TestCvmService_SetMonth_TickWithoutDateClearsCell(t *testing.T) {
	var deleted bool
	cvm := &mockCvmRepo{
		deleteEntry: func(_ context.Context, _ uuid.UUID, year, month int) error {
			deleted = true
			assert.Equal(t, 2025, year)
			assert.Equal(t, 2, month)
			return nil
		},
	}
	svc := service.NewCvmService(cvm, settingsWith(2025, domain.WeekStartMonday))

	in := validCvmInput()
	in.PlannedDate = nil
	in.CompletedManual = true

	entry, err := svc.SetMonth(context.Background(), in)

	require.NoError(t, err)
	assert.Nil(t, entry, "a tick with no date carries no plan; the cell ends up empty")
	assert.True(t, deleted)
}

func TestCvmService_SetMonth_ClearingBothDeletes(t *testing.T) {
	var deleted bool
	cvm := &mockCvmRepo{
		deleteEntry: func(_ context.Context, _ uuid.UUID, year, month int) error {
			deleted = true
			assert.Equal(t, 2025, year)
			assert.Equal(t, 2, month)
			return nil
		},
	}
	svc := service.NewCvmService(cvm, settingsWith(2025, domain.WeekStartMonday))

	in := validCvmInput()
	in.PlannedDate = nil
	in.CompletedManual = false

	entry, err := svc.SetMonth(context.Background(), in)

	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.True(t, deleted)
}

func TestCvmService_SetMonth_MonthOutOfRange(t *testing.T) {
	svc := service.NewCvmService(&mockCvmRepo{}, settingsWith(2025, domain.WeekStartMonday))

	in := validCvmInput()
	in.Month = 13

	_, err := svc.SetMonth(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCvmService_SetMonth_MissingCustomer(t *testing.T) {
	svc := service.NewCvmService(&mockCvmRepo{}, settingsWith(2025, domain.WeekStartMonday))

	in := validCvmInput()
	in.CustomerID = uuid.UUID{}

	_, err := svc.SetMonth(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCvmService_Grid_YearZeroFallsBackToSettings(t *testing.T) {
	var queried int
	cvm := &mockCvmRepo{
		gridRows: func(_ context.Context, year int, territoryID *uuid.UUID) ([]domain.CvmCustomerRow, error) {
			queried = year
			assert.Nil(t, territoryID)
			return nil, nil
		},
	}
	svc := service.NewCvmService(cvm, settingsWith(2027, domain.WeekStartMonday))

	year, _, err := svc.Grid(context.Background(), 0, nil)

	require.NoError(t, err)
	assert.Equal(t, 2027, year)
	assert.Equal(t, 2027, queried)
}

func TestCvmService_Grid_YearOutOfRange(t *testing.T) {
	svc := service.NewCvmService(&mockCvmRepo{}, settingsWith(2025, domain.WeekStartMonday))

	_, _, err := svc.Grid(context.Background(), 1875, nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}
