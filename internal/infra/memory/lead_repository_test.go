package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/infra/memory"
)

func TestLeadRepositoryScopesByOwner(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeadRepository()

	a := entity.Lead{OwnerID: "alice", CompanyName: "A", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &a))
	assert.NotEmpty(t, a.ID)

	_, err := repo.FindByID(ctx, "bob", a.ID)
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "bob", a.ID), entity.ErrLeadNotFound)

	list, err := repo.List(ctx, "bob", entity.LeadFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLeadRepositoryUpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeadRepository()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	l := entity.Lead{ID: "x", OwnerID: "alice", CreatedAt: created, UpdatedAt: created}
	require.NoError(t, repo.Create(ctx, &l))

	l.CreatedAt = created.Add(48 * time.Hour)
	l.UpdatedAt = created.Add(72 * time.Hour)
	require.NoError(t, repo.Update(ctx, &l))

	got, err := repo.FindByID(ctx, "alice", "x")
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, created.Add(72*time.Hour), got.UpdatedAt)
}

func TestLeadRepositoryUpsertSkipsForeignOwner(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeadRepository()
	repo.Seed(entity.Lead{ID: "acmecosp", OwnerID: "bob", CompanyName: "Acme"})

	n, err := repo.UpsertBatch(ctx, "alice", []entity.Lead{
		{ID: "acmecosp", CompanyName: "Acme Alice"},
		{ID: "betasp", CompanyName: "Beta"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	bobs, err := repo.FindByID(ctx, "bob", "acmecosp")
	require.NoError(t, err)
	assert.Equal(t, "Acme", bobs.CompanyName)
}

func TestLeadRepositoryAssignOwnerOnlyClaimsOrphans(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeadRepository()
	repo.Seed(
		entity.Lead{ID: "o1"},
		entity.Lead{ID: "o2"},
		entity.Lead{ID: "b1", OwnerID: "bob"},
	)

	n, err := repo.AssignOwner(ctx, []string{"o1", "o2", "b1", "missing"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := repo.CountByOwner(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	orphans, err := repo.ListOrphanIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestLeadRepositoryListSortedAndFiltered(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeadRepository()
	base := time.Now()
	repo.Seed(
		entity.Lead{ID: "1", OwnerID: "alice", Territory: "SP", CreatedAt: base},
		entity.Lead{ID: "2", OwnerID: "alice", Territory: "RJ", CreatedAt: base.Add(time.Minute)},
		entity.Lead{ID: "3", OwnerID: "alice", Territory: "SP", CreatedAt: base.Add(2 * time.Minute)},
	)

	all, err := repo.List(ctx, "alice", entity.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "3", all[0].ID)

	sp, err := repo.List(ctx, "alice", entity.TerritoryFilter("SP"))
	require.NoError(t, err)
	require.Len(t, sp, 2)
	assert.Equal(t, "3", sp[0].ID)
	assert.Equal(t, "1", sp[1].ID)
}
