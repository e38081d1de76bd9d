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
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

func TestSendOutreachStampsLastContact(t *testing.T) {
	scripts, leads := newScriptFixture()
	ctx := context.Background()
	events := newRecordingEvents()

	lead, err := leads.Add(ctx, alice, entity.LeadInput{CompanyName: ptr("Acme"), Email: ptr("ceo@acme.io")})
	require.NoError(t, err)
	s, err := scripts.Add(ctx, alice, usecase.AddScriptInput{Title: "T", Content: "Olá [NOME DA EMPRESA]"})
	require.NoError(t, err)

	sender := new(MockOutreachSender)
	sender.On("SendOutreach", mock.Anything, "ceo@acme.io", "Acme", "Olá Acme").Return(nil)

	sentAt := time.Now().Add(time.Minute)
	uc := usecase.NewSendOutreachUseCase(scripts, leads, sender, events)
	uc.Now = func() time.Time { return sentAt }

	out, err := uc.Execute(ctx, alice, usecase.SendOutreachInput{LeadID: lead.ID, ScriptID: s.ID})
	require.NoError(t, err)
	assert.Equal(t, "ceo@acme.io", out.To)
	assert.Equal(t, []bool{true}, events.sent)

	got, err := leads.Get(ctx, alice, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastContactAt)
	assert.True(t, got.LastContactAt.Equal(sentAt))
	sender.AssertExpectations(t)
}

func TestSendOutreachFailures(t *testing.T) {
	scripts, leads := newScriptFixture()
	ctx := context.Background()

	noEmail, err := leads.Add(ctx, alice, entity.LeadInput{CompanyName: ptr("Sem Email")})
	require.NoError(t, err)
	withEmail, err := leads.Add(ctx, alice, entity.LeadInput{CompanyName: ptr("Com Email"), Email: ptr("a@b.com")})
	require.NoError(t, err)
	s, err := scripts.Add(ctx, alice, usecase.AddScriptInput{Title: "T", Content: "oi"})
	require.NoError(t, err)

	_, err = usecase.NewSendOutreachUseCase(scripts, leads, nil, nil).Execute(ctx, alice, usecase.SendOutreachInput{LeadID: withEmail.ID, ScriptID: s.ID})
	assert.True(t, usecase.IsTechnicalError(err))

	sender := new(MockOutreachSender)
	sender.On("SendOutreach", mock.Anything, "a@b.com", "Assunto", "oi").Return(errors.New("smtp down"))
	events := newRecordingEvents()
	uc := usecase.NewSendOutreachUseCase(scripts, leads, sender, events)

	_, err = uc.Execute(ctx, alice, usecase.SendOutreachInput{LeadID: noEmail.ID, ScriptID: s.ID})
	assert.True(t, usecase.IsDomainError(err))

	_, err = uc.Execute(ctx, alice, usecase.SendOutreachInput{LeadID: withEmail.ID, ScriptID: s.ID, Subject: "Assunto"})
	var te *usecase.TechnicalError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, usecase.CodeMail, te.Code)
	assert.Equal(t, []bool{false}, events.sent)

	got, err := leads.Get(ctx, alice, withEmail.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastContactAt)
}
