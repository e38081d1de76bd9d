package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/infra/memory"
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

func newScriptFixture() (*usecase.ScriptService, *usecase.LeadService) {
	leadRepo := memory.NewLeadRepository()
	return usecase.NewScriptService(memory.NewScriptRepository(), leadRepo), usecase.NewLeadService(leadRepo, nil)
}

func TestSeedDefaultsOnlyOnce(t *testing.T) {
	scripts, _ := newScriptFixture()
	ctx := context.Background()

	n, err := scripts.SeedDefaults(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, len(entity.DefaultScripts()), n)

	n, err = scripts.SeedDefaults(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := scripts.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, len(entity.DefaultScripts()))
	assert.Equal(t, entity.DefaultScripts()[0].Title, list[0].Title)

	other, err := scripts.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAddScriptValidation(t *testing.T) {
	scripts, _ := newScriptFixture()
	ctx := context.Background()

	_, err := scripts.Add(ctx, alice, usecase.AddScriptInput{Content: "oi"})
	assert.True(t, usecase.IsDomainError(err))

	_, err = scripts.Add(ctx, alice, usecase.AddScriptInput{Title: "x", Category: "spam"})
	assert.True(t, usecase.IsDomainError(err))

	s, err := scripts.Add(ctx, alice, usecase.AddScriptInput{Title: "Follow", Content: "oi"})
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryInitial, s.Category)
}

func TestUpdateAndDeleteScriptScopedToOwner(t *testing.T) {
	scripts, _ := newScriptFixture()
	ctx := context.Background()

	s, err := scripts.Add(ctx, alice, usecase.AddScriptInput{Title: "A", Content: "oi"})
	require.NoError(t, err)

	_, err = scripts.Update(ctx, bob, s.ID, entity.ScriptPatch{Title: ptr("B")})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	assert.ErrorIs(t, scripts.Delete(ctx, bob, s.ID), usecase.ErrNotFound)

	updated, err := scripts.Update(ctx, alice, s.ID, entity.ScriptPatch{Title: ptr("B")})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Title)
	require.NoError(t, scripts.Delete(ctx, alice, s.ID))
}

func TestRenderScriptForLead(t *testing.T) {
	scripts, leads := newScriptFixture()
	ctx := context.Background()

	lead, err := leads.Add(ctx, alice, entity.LeadInput{
		CompanyName: ptr("Pet Feliz"),
		Niche:       ptr("pet shops"),
		WhatsApp:    ptr("5511988887777"),
	})
	require.NoError(t, err)
	s, err := scripts.Add(ctx, alice, usecase.AddScriptInput{Title: "T", Content: "Oi [Nome], a [NOME DA EMPRESA] atende [nicho]?"})
	require.NoError(t, err)

	out, err := scripts.Render(ctx, alice, s.ID, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oi Pet Feliz, a Pet Feliz atende pet shops?", out.Text)
	assert.True(t, strings.HasPrefix(out.WhatsAppLink, "https://wa.me/5511988887777?text=Oi+Pet+Feliz"))

	_, err = scripts.Render(ctx, bob, s.ID, lead.ID)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}
