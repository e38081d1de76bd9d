package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/infra/memory"
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

func newLeadService() (*usecase.LeadService, *recordingEvents) {
	events := newRecordingEvents()
	return usecase.NewLeadService(memory.NewLeadRepository(), events), events
}

func TestAddFillsEveryDefault(t *testing.T) {
	svc, _ := newLeadService()
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	lead, err := svc.Add(context.Background(), alice, entity.LeadInput{CompanyName: ptr("Padaria Boa")})
	require.NoError(t, err)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "alice", lead.OwnerID)
	assert.Equal(t, "Padaria Boa", lead.CompanyName)
	assert.Equal(t, "", lead.Niche)
	assert.Equal(t, "", lead.Territory)
	assert.Equal(t, entity.WebsiteNone, lead.WebsiteQuality)
	assert.Equal(t, entity.StageNew, lead.Stage)
	assert.Equal(t, entity.SourceManual, lead.Source)
	assert.Equal(t, 0.0, lead.Value)
	assert.Equal(t, fixed, lead.CreatedAt)
	assert.Equal(t, fixed, lead.UpdatedAt)
	assert.Nil(t, lead.LastContactAt)
}

func TestAddRequiresCompanyName(t *testing.T) {
	svc, _ := newLeadService()

	_, err := svc.Add(context.Background(), alice, entity.LeadInput{Niche: ptr("Padaria")})
	require.Error(t, err)

	var de *usecase.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, usecase.CodeValidation, de.Code)
	assert.Contains(t, de.Message, "company_name")
}

func TestAddRejectsInvalidEnums(t *testing.T) {
	svc, _ := newLeadService()

	_, err := svc.Add(context.Background(), alice, entity.LeadInput{
		CompanyName: ptr("X"),
		Stage:       ptr(entity.Stage("archived")),
		Email:       ptr("not-an-email"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage")
	assert.Contains(t, err.Error(), "email")
}

func TestOperationsWithoutPrincipal(t *testing.T) {
	svc, _ := newLeadService()
	ctx := context.Background()
	anon := entity.Principal{}

	_, err := svc.List(ctx, anon, entity.LeadFilter{})
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)

	_, err = svc.Add(ctx, anon, entity.LeadInput{CompanyName: ptr("X")})
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)

	_, err = svc.Update(ctx, anon, "id", entity.LeadPatch{})
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)

	assert.ErrorIs(t, svc.Delete(ctx, anon, "id"), usecase.ErrUnauthenticated)
}

func TestTenantIsolation(t *testing.T) {
	svc, _ := newLeadService()
	ctx := context.Background()

	mine, err := svc.Add(ctx, alice, entity.LeadInput{CompanyName: ptr("Alice Co")})
	require.NoError(t, err)

	list, err := svc.List(ctx, bob, entity.LeadFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Get(ctx, bob, mine.ID)
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	_, err = svc.Update(ctx, bob, mine.ID, entity.LeadPatch{Notes: ptr("hijack")})
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, bob, mine.ID), usecase.ErrNotFound)

	still, err := svc.Get(ctx, alice, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "", still.Notes)
}

func TestListNewestFirstWithTerritoryFilter(t *testing.T) {
	svc, _ := newLeadService()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.Now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	for _, tc := range []struct{ name, territory string }{{"A", "SP"}, {"B", "RJ"}, {"C", "SP"}} {
		_, err := svc.Add(ctx, alice, entity.LeadInput{CompanyName: ptr(tc.name), Territory: ptr(tc.territory)})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, alice, entity.TerritoryFilter(entity.AllTerritories))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "C", all[0].CompanyName)
	assert.Equal(t, "A", all[2].CompanyName)

	sp, err := svc.List(ctx, alice, entity.TerritoryFilter("SP"))
	require.NoError(t, err)
	require.Len(t, sp, 2)
	assert.Equal(t, "C", sp[0].CompanyName)

	territories, err := svc.Territories(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"RJ", "SP"}, territories)
}

func TestUpdateMergesAndKeepsCreatedAt(t *testing.T) {
	svc, events := newLeadService()
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return created }

	lead, err := svc.Add(ctx, alice, entity.LeadInput{CompanyName: ptr("Acme"), Niche: ptr("Pet")})
	require.NoError(t, err)

	later := created.Add(time.Hour)
	svc.Now = func() time.Time { return later }
	updated, err := svc.Update(ctx, alice, lead.ID, entity.LeadPatch{Notes: ptr("ligar amanhã"), Stage: ptr(entity.StageContacted)})
	require.NoError(t, err)

	assert.Equal(t, "Pet", updated.Niche)
	assert.Equal(t, "ligar amanhã", updated.Notes)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, [][2]entity.Stage{{entity.StageNew, entity.StageContacted}}, events.transitions)
}

func TestUpdateMissingLead(t *testing.T) {
	svc, _ := newLeadService()
	_, err := svc.Update(context.Background(), alice, "missing", entity.LeadPatch{Notes: ptr("x")})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestChangeStageAcceptsEveryPair(t *testing.T) {
	svc, _ := newLeadService()
	ctx := context.Background()

	for _, from := range entity.Stages() {
		for _, to := range entity.Stages() {
			lead, err := svc.Add(ctx, alice, entity.LeadInput{CompanyName: ptr("X"), Stage: ptr(from)})
			require.NoError(t, err)

			moved, err := svc.ChangeStage(ctx, alice, lead.ID, to)
			require.NoError(t, err, "%s -> %s", from, to)
			assert.Equal(t, to, moved.Stage)
		}
	}
}

func TestChangeStageRejectsUnknownStage(t *testing.T) {
	svc, _ := newLeadService()
	ctx := context.Background()
	lead, err := svc.Add(ctx, alice, entity.LeadInput{CompanyName: ptr("X")})
	require.NoError(t, err)

	_, err = svc.ChangeStage(ctx, alice, lead.ID, "archived")
	var de *usecase.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, usecase.CodeInvalidStage, de.Code)
	assert.ErrorIs(t, err, entity.ErrInvalidStage)

	got, err := svc.Get(ctx, alice, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageNew, got.Stage)
}

func TestStatsOverFilteredSet(t *testing.T) {
	svc, _ := newLeadService()
	ctx := context.Background()

	for _, s := range []entity.Stage{entity.StageWon, entity.StageLost, entity.StageNew} {
		_, err := svc.Add(ctx, alice, entity.LeadInput{CompanyName: ptr("X"), Territory: ptr("SP"), Stage: ptr(s)})
		require.NoError(t, err)
	}
	_, err := svc.Add(ctx, alice, entity.LeadInput{CompanyName: ptr("Y"), Territory: ptr("RJ"), Stage: ptr(entity.StageWon)})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, alice, entity.TerritoryFilter("SP"))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByStage[entity.StageWon])
	assert.Equal(t, 0, stats.ByStage[entity.StageNegotiation])
	assert.Equal(t, "33.3", stats.ConversionRate)
}

func TestListStoreFailureIsTechnical(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("List", mock.Anything, "alice", entity.LeadFilter{}).Return(nil, errors.New("connection refused"))
	svc := usecase.NewLeadService(repo, nil)

	_, err := svc.List(context.Background(), alice, entity.LeadFilter{})
	require.Error(t, err)
	assert.True(t, usecase.IsTechnicalError(err))
	assert.False(t, usecase.IsDomainError(err))
	repo.AssertExpectations(t)
}
