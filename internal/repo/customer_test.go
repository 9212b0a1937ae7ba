package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
)

// customerFixture returns a domain.Customer with sensible defaults for use in
// tests. Callers can override individual fields after calling this function.
func customerFixture() domain.Customer {
	return domain.Customer{
		CustCode:  "C045",
		Name:      "Acme Stores",
		TradeName: "Acme Trade",
		GroupName: "Retail",
		CvmNotes:  "Key account",
	}
}

func TestCustomerRepo_Create(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewCustomerRepo(tx)
	ctx := context.Background()

	input := customerFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.CustCode, got.CustCode)
	assert.Equal(t, input.Name, got.Name)
	assert.Equal(t, input.TradeName, got.TradeName)
	assert.Nil(t, got.TerritoryID)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestCustomerRepo_Create_WithTerritory(t *testing.T) {
	tx := newTestTx(t)
	territories := repo.NewTerritoryRepo(tx)
	r := repo.NewCustomerRepo(tx)
	ctx := context.Background()

	terr, err := territories.UpsertByName(ctx, "North")
	require.NoError(t, err)

	input := customerFixture()
	input.TerritoryID = &terr.ID

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, got.TerritoryID)
	assert.Equal(t, terr.ID, *got.TerritoryID)
}

func TestCustomerRepo_GetByCustCode(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewCustomerRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, customerFixture())
	require.NoError(t, err)

	got, err := r.GetByCustCode(ctx, created.CustCode)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = r.GetByCustCode(ctx, "NO-SUCH-CODE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerRepo_List_SearchAndTerritoryJoin(t *testing.T) {
	tx := newTestTx(t)
	territories := repo.NewTerritoryRepo(tx)
	r := repo.NewCustomerRepo(tx)
	ctx := context.Background()

	terr, err := territories.UpsertByName(ctx, "South")
	require.NoError(t, err)

	c1 := customerFixture()
	c1.TerritoryID = &terr.ID
	_, err = r.Create(ctx, c1)
	require.NoError(t, err)

	c2 := customerFixture()
	c2.CustCode = "B001"
	c2.Name = "Beta Mart"
	_, err = r.Create(ctx, c2)
	require.NoError(t, err)

	all, err := r.List(ctx, "", domain.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by cust_code: B001 before C045.
	assert.Equal(t, "B001", all[0].CustCode)
	assert.Equal(t, "", all[0].Territory, "unassigned customer has empty territory")
	assert.Equal(t, "South", all[1].Territory)

	// Case-insensitive search on code or name.
	hits, err := r.List(ctx, "beta", domain.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Beta Mart", hits[0].Name)

	// Paged: one row per page, second page holds the second code.
	page2, err := r.List(ctx, "", domain.NewPaginationParams(2, 1))
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "C045", page2[0].CustCode)
}

func TestCustomerRepo_Update(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewCustomerRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, customerFixture())
	require.NoError(t, err)

	created.Name = "Acme Holdings"
	created.CvmNotes = ""

	updated, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Acme Holdings", updated.Name)
	assert.Equal(t, "", updated.CvmNotes)
}

func TestCustomerRepo_Update_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewCustomerRepo(tx)
	ctx := context.Background()

	ghost := customerFixture()
	ghost.ID = uuid.New()

	_, err := r.Update(ctx, ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerRepo_Delete_CascadesToEvents(t *testing.T) {
	tx := newTestTx(t)
	customers := repo.NewCustomerRepo(tx)
	events := repo.NewEventRepo(tx)
	ctx := context.Background()

	c, err := customers.Create(ctx, customerFixture())
	require.NoError(t, err)

	ev := eventFixture()
	ev.CustomerID = &c.ID
	created, err := events.Create(ctx, ev)
	require.NoError(t, err)

	require.NoError(t, customers.Delete(ctx, c.ID))

	_, err = customers.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = events.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "events should be deleted with their customer")
}

func TestTerritoryRepo_UpsertByName_Converges(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTerritoryRepo(tx)
	ctx := context.Background()

	first, err := r.UpsertByName(ctx, "West")
	require.NoError(t, err)

	second, err := r.UpsertByName(ctx, "West")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same name must resolve to the same territory")

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := r.GetByName(ctx, "West")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = r.GetByName(ctx, "Nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
