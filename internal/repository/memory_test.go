package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/deppfellow/apidocs-boilerplate/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceStore(t *testing.T) *MemoryRepository[model.Service] {
	t.Helper()
	return NewMemoryRepository[model.Service](ServiceDescriptor)
}

func createService(t *testing.T, repo Repository[model.Service], name, slug string) *model.Service {
	t.Helper()
	svc, err := repo.Create(context.Background(), Changes{"name": name, "slug": slug})
	require.NoError(t, err)
	return svc
}

func TestMemoryCreateAppliesDefaults(t *testing.T) {
	repo := newServiceStore(t)

	svc := createService(t, repo, "Payments API", "payments-api")

	assert.NotEqual(t, uuid.Nil, svc.ID)
	assert.Equal(t, model.ServiceStatusActive, svc.Status)
	assert.Equal(t, []string{}, svc.Tags)
	assert.False(t, svc.CreatedAt.IsZero())
	assert.Equal(t, svc.CreatedAt, svc.UpdatedAt)
	assert.Nil(t, svc.DeletedAt)
}

func TestMemoryCreateRejectsUnknownColumn(t *testing.T) {
	repo := newServiceStore(t)

	_, err := repo.Create(context.Background(), Changes{"name": "x", "owner": "me"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestMemoryListLivePaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newServiceStore(t)
	for i := range 25 {
		createService(t, repo, fmt.Sprintf("Service %02d", i), fmt.Sprintf("service-%02d", i))
	}

	page, err := repo.ListLive(ctx, ListQuery{Page: 3, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, page.Items, 5)
	assert.Equal(t, Pagination{Page: 3, Limit: 10, Total: 25, TotalPages: 3}, page.Pagination)
	assert.Equal(t, "service-04", page.Items[0].Slug)
	assert.Equal(t, "service-00", page.Items[4].Slug)

	beyond, err := repo.ListLive(ctx, ListQuery{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, int64(25), beyond.Pagination.Total)
}

func TestMemoryListLiveFiltersAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := newServiceStore(t)

	createService(t, repo, "Payments API", "payments")
	createService(t, repo, "Billing", "billing")
	_, err := repo.Create(ctx, Changes{"name": "Ledger", "slug": "ledger", "description": "Tracks PAYMENTS", "status": "inactive"})
	require.NoError(t, err)

	page, err := repo.ListLive(ctx, ListQuery{Search: "payments"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)

	page, err = repo.ListLive(ctx, ListQuery{Search: "payments", Filters: Filters{"status": "active"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "payments", page.Items[0].Slug)

	_, err = repo.ListLive(ctx, ListQuery{Filters: Filters{"swagger_url": "x"}})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestMemorySoftDeleteHidesRecord(t *testing.T) {
	ctx := context.Background()
	repo := newServiceStore(t)
	svc := createService(t, repo, "Payments", "payments")

	deleted, err := repo.SoftDelete(ctx, svc.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)
	assert.Equal(t, svc.UpdatedAt, deleted.UpdatedAt)

	_, err = repo.GetLiveByID(ctx, svc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetLiveBySlug(ctx, "payments")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.SoftDelete(ctx, svc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.UpdateLive(ctx, svc.ID, Changes{"name": "New"})
	assert.ErrorIs(t, err, ErrNotFound)

	page, err := repo.ListLive(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestMemoryRestore(t *testing.T) {
	ctx := context.Background()
	repo := newServiceStore(t)
	svc := createService(t, repo, "Payments", "payments")

	_, err := repo.Restore(ctx, svc.ID)
	assert.ErrorIs(t, err, ErrNotFound, "live records cannot be restored")

	_, err = repo.SoftDelete(ctx, svc.ID)
	require.NoError(t, err)

	restored, err := repo.Restore(ctx, svc.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.True(t, restored.UpdatedAt.After(svc.UpdatedAt))

	found, err := repo.GetLiveBySlug(ctx, "payments")
	require.NoError(t, err)
	assert.Equal(t, svc.ID, found.ID)
}

func TestMemoryUniqueSlugAmongLiveRows(t *testing.T) {
	ctx := context.Background()
	repo := newServiceStore(t)
	first := createService(t, repo, "Payments", "payments")

	_, err := repo.Create(ctx, Changes{"name": "Payments 2", "slug": "payments"})
	require.Error(t, err)
	assert.True(t, sqlerr.IsUniqueViolation(err))

	_, err = repo.SoftDelete(ctx, first.ID)
	require.NoError(t, err)

	second := createService(t, repo, "Payments", "payments")
	assert.NotEqual(t, first.ID, second.ID)

	_, err = repo.Restore(ctx, first.ID)
	assert.True(t, sqlerr.IsUniqueViolation(err), "restoring must not duplicate a live slug")
}

func TestMemoryUpdateLive(t *testing.T) {
	ctx := context.Background()
	repo := newServiceStore(t)
	svc := createService(t, repo, "Payments", "payments")
	other := createService(t, repo, "Billing", "billing")

	doc := json.RawMessage(`{"openapi":"3.0.0"}`)
	updated, err := repo.UpdateLive(ctx, svc.ID, Changes{
		"description":  "Card payments",
		"swagger_json": doc,
		"tags":         []string{"money"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Card payments", *updated.Description)
	assert.JSONEq(t, string(doc), string(updated.SwaggerDocument))
	assert.Equal(t, []string{"money"}, updated.Tags)
	assert.Equal(t, "Payments", updated.Name)
	assert.True(t, updated.UpdatedAt.After(svc.UpdatedAt))
	assert.Equal(t, svc.CreatedAt, updated.CreatedAt)

	cleared, err := repo.UpdateLive(ctx, svc.ID, Changes{"description": nil})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)

	_, err = repo.UpdateLive(ctx, other.ID, Changes{"slug": "payments"})
	assert.True(t, sqlerr.IsUniqueViolation(err))

	unchanged, err := repo.GetLiveByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "billing", unchanged.Slug)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := newServiceStore(t)
	svc, err := repo.Create(ctx, Changes{"name": "Payments", "slug": "payments", "tags": []string{"a"}})
	require.NoError(t, err)

	svc.Tags[0] = "mutated"
	svc.Name = "mutated"

	found, err := repo.GetLiveByID(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, found.Tags)
	assert.Equal(t, "Payments", found.Name)
}

func TestMemoryFindAllLiveSortsAndProjects(t *testing.T) {
	ctx := context.Background()
	repo := newServiceStore(t)
	createService(t, repo, "Zeta", "zeta")
	createService(t, repo, "Alpha", "alpha")
	_, err := repo.Create(ctx, Changes{"name": "Beta", "slug": "beta", "status": "inactive"})
	require.NoError(t, err)

	items, err := repo.FindAllLive(ctx, FindQuery{
		Filters: Filters{"status": model.ServiceStatusActive},
		Sort:    Sort{Column: "name"},
		Columns: ServiceDescriptor.SummaryColumns,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Name)
	assert.Equal(t, "Zeta", items[1].Name)
	assert.NotEqual(t, uuid.Nil, items[0].ID)
	assert.True(t, items[0].CreatedAt.IsZero(), "columns outside the projection stay empty")
	assert.Nil(t, items[0].Tags)

	_, err = repo.FindAllLive(ctx, FindQuery{Sort: Sort{Column: "swagger_json"}})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestMemoryFindOneLive(t *testing.T) {
	ctx := context.Background()
	repo := newServiceStore(t)
	_, err := repo.Create(ctx, Changes{"name": "Payments", "slug": "payments", "category": "finance"})
	require.NoError(t, err)

	found, err := repo.FindOneLive(ctx, Filters{"category": "finance"})
	require.NoError(t, err)
	assert.Equal(t, "payments", found.Slug)

	_, err = repo.FindOneLive(ctx, Filters{"category": "ops"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryHardDelete(t *testing.T) {
	ctx := context.Background()
	repo := newServiceStore(t)
	svc := createService(t, repo, "Payments", "payments")

	_, err := repo.SoftDelete(ctx, svc.ID)
	require.NoError(t, err)

	removed, err := repo.HardDelete(ctx, svc.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.HardDelete(ctx, svc.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.Restore(ctx, svc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryExamplesAreNotSluggable(t *testing.T) {
	repo := NewMemoryRepository[model.Example](ExampleDescriptor)

	_, err := repo.GetLiveBySlug(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotSluggable)
}
