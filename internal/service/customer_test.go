package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
	"github.com/visitops/cvm-planner/backend/internal/service"
)

// mockCustomerRepo is a hand-written test double for repo.CustomerRepo.
// Each method is a function field — set only the ones your test needs.
type mockCustomerRepo struct {
	create        func(ctx context.Context, c domain.Customer) (domain.Customer, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	getByCustCode func(ctx context.Context, code string) (domain.Customer, error)
	list          func(ctx context.Context, search string, page domain.PaginationParams) ([]domain.CustomerRecord, error)
	update        func(ctx context.Context, c domain.Customer) (domain.Customer, error)
	delete        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCustomerRepo) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	return m.create(ctx, c)
}
func (m *mockCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	return m.getByID(ctx, id)
}
func (m *mockCustomerRepo) GetByCustCode(ctx context.Context, code string) (domain.Customer, error) {
	return m.getByCustCode(ctx, code)
}
func (m *mockCustomerRepo) List(ctx context.Context, search string, page domain.PaginationParams) ([]domain.CustomerRecord, error) {
	return m.list(ctx, search, page)
}
func (m *mockCustomerRepo) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	return m.update(ctx, c)
}
func (m *mockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.CustomerRepo = (*mockCustomerRepo)(nil)

// mockTerritoryRepo is a hand-written test double for repo.TerritoryRepo.
type mockTerritoryRepo struct {
	list         func(ctx context.Context) ([]domain.Territory, error)
	getByName    func(ctx context.Context, name string) (domain.Territory, error)
	upsertByName func(ctx context.Context, name string) (domain.Territory, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTerritoryRepo) List(ctx context.Context) ([]domain.Territory, error) {
	return m.list(ctx)
}
func (m *mockTerritoryRepo) GetByName(ctx context.Context, name string) (domain.Territory, error) {
	return m.getByName(ctx, name)
}
func (m *mockTerritoryRepo) UpsertByName(ctx context.Context, name string) (domain.Territory, error) {
	return m.upsertByName(ctx, name)
}
func (m *mockTerritoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.TerritoryRepo = (*mockTerritoryRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func validCustomer() domain.Customer {
	return domain.Customer{CustCode: "C045", Name: "Acme Stores"}
}

// echoCustomerRepo echoes whatever it receives back — useful for Create/Update
// tests that only care about validation logic.
func echoCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{
		create: func(_ context.Context, c domain.Customer) (domain.Customer, error) { return c, nil },
		update: func(_ context.Context, c domain.Customer) (domain.Customer, error) { return c, nil },
	}
}

func staticTerritoryRepo(t domain.Territory) *mockTerritoryRepo {
	return &mockTerritoryRepo{
		upsertByName: func(_ context.Context, _ string) (domain.Territory, error) { return t, nil },
	}
}

// ---- tests -----------------------------------------------------------------

func TestCustomerService_Create_Valid(t *testing.T) {
	svc := service.NewCustomerService(echoCustomerRepo(), staticTerritoryRepo(domain.Territory{}))

	got, err := svc.Create(context.Background(), validCustomer(), "")

	require.NoError(t, err)
	assert.Equal(t, "C045", got.CustCode)
	assert.Nil(t, got.TerritoryID, "blank territory means unassigned")
}

func TestCustomerService_Create_MissingCode(t *testing.T) {
	svc := service.NewCustomerService(echoCustomerRepo(), staticTerritoryRepo(domain.Territory{}))

	c := validCustomer()
	c.CustCode = "   " // whitespace-only should be treated as empty

	_, err := svc.Create(context.Background(), c, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCustomerService_Create_MissingName(t *testing.T) {
	svc := service.NewCustomerService(echoCustomerRepo(), staticTerritoryRepo(domain.Territory{}))

	c := validCustomer()
	c.Name = ""

	_, err := svc.Create(context.Background(), c, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCustomerService_Create_ResolvesTerritoryByName(t *testing.T) {
	terr := domain.Territory{ID: uuid.New(), Name: "North"}

	var upserted string
	territories := &mockTerritoryRepo{
		upsertByName: func(_ context.Context, name string) (domain.Territory, error) {
			upserted = name
			return terr, nil
		},
	}
	svc := service.NewCustomerService(echoCustomerRepo(), territories)

	got, err := svc.Create(context.Background(), validCustomer(), "  North  ")

	require.NoError(t, err)
	assert.Equal(t, "North", upserted, "territory name should be trimmed before upsert")
	require.NotNil(t, got.TerritoryID)
	assert.Equal(t, terr.ID, *got.TerritoryID)
}

func TestCustomerService_Update_ClearsTerritoryOnBlankName(t *testing.T) {
	svc := service.NewCustomerService(echoCustomerRepo(), staticTerritoryRepo(domain.Territory{}))

	c := validCustomer()
	old := uuid.New()
	c.TerritoryID = &old

	got, err := svc.Update(context.Background(), c, "")

	require.NoError(t, err)
	assert.Nil(t, got.TerritoryID, "blank territory name unassigns the customer")
}

func TestCustomerService_List_TrimsSearch(t *testing.T) {
	var gotSearch string
	var gotPage domain.PaginationParams
	customers := &mockCustomerRepo{
		list: func(_ context.Context, search string, page domain.PaginationParams) ([]domain.CustomerRecord, error) {
			gotSearch = search
			gotPage = page
			return nil, nil
		},
	}
	svc := service.NewCustomerService(customers, staticTerritoryRepo(domain.Territory{}))

	_, err := svc.List(context.Background(), "  acme  ", domain.NewPaginationParams(2, 50))

	require.NoError(t, err)
	assert.Equal(t, "acme", gotSearch)
	assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 50}, gotPage)
}

func TestTerritoryService_Delete_RequiresID(t *testing.T) {
	svc := service.NewTerritoryService(&mockTerritoryRepo{})

	err := svc.Delete(context.Background(), uuid.UUID{})

	assert.ErrorIs(t, err, domain.ErrValidation)
}
