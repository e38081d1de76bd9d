package entity

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

var ErrScriptNotFound = errors.New("script não encontrado")

type ScriptCategory string

const (
	CategoryInitial  ScriptCategory = "initial"
	CategoryFollowup ScriptCategory = "followup"
	CategoryProposal ScriptCategory = "proposal"
	CategoryClosing  ScriptCategory = "closing"
)

func (c ScriptCategory) Valid() bool {
	switch c {
	case CategoryInitial, CategoryFollowup, CategoryProposal, CategoryClosing:
		return true
	}
	return false
}

// Script é um modelo de mensagem de abordagem.
type Script struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Category  ScriptCategory `json:"category"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ScriptPatch struct {
	Title    *string         `json:"title,omitempty"`
	Content  *string         `json:"content,omitempty"`
	Category *ScriptCategory `json:"category,omitempty"`
}

type ScriptRepositoryInterface interface {
	List(ctx context.Context, ownerID string) ([]Script, error)
	FindByID(ctx context.Context, ownerID, id string) (*Script, error)
	Create(ctx context.Context, s *Script) error
	Update(ctx context.Context, s *Script) error
	Delete(ctx context.Context, ownerID, id string) error
}

func NewScript(ownerID, title, content string, category ScriptCategory, now time.Time) *Script {
	if category == "" {
		category = CategoryInitial
	}
	return &Script{
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Script) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.New("title is required")
	}
	if !s.Category.Valid() {
		return errors.New("category must be initial, followup, proposal or closing")
	}
	return nil
}

func (s *Script) Apply(p ScriptPatch, now time.Time) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Content != nil {
		s.Content = *p.Content
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if now.Before(s.CreatedAt) {
		now = s.CreatedAt
	}
	s.UpdatedAt = now
}

// Render fills the placeholders of the script body with the lead's data.
func (s *Script) Render(l Lead) string {
	name := strings.TrimSpace(l.ContactName)
	if name == "" {
		name = l.CompanyName
	}
	r := strings.NewReplacer(
		"[NOME DA EMPRESA]", l.CompanyName,
		"[Nome da Empresa]", l.CompanyName,
		"[NOME]", name,
		"[Nome]", name,
		"[NICHO]", l.Niche,
		"[nicho]", l.Niche,
	)
	return r.Replace(s.Content)
}

// SortOldestFirst orders scripts by CreatedAt ascending, ties by id.
func SortOldestFirst(scripts []Script) {
	sort.SliceStable(scripts, func(i, j int) bool {
		if scripts[i].CreatedAt.Equal(scripts[j].CreatedAt) {
			return scripts[i].ID < scripts[j].ID
		}
		return scripts[i].CreatedAt.Before(scripts[j].CreatedAt)
	})
}

// DefaultScripts are the ready-made templates offered to a new account.
func DefaultScripts() []Script {
	return []Script{
		{
			Title:    "Primeiro Contato - Sem Site",
			Category: CategoryInitial,
			Content: "Oi [Nome], tudo bem? Vi a [NOME DA EMPRESA] no Google e percebi que vocês não têm uma página focada em capturar clientes pelo WhatsApp.\n" +
				"Trabalho com estruturas de captação para [nicho] que transformam quem te encontra no Google ou Instagram em contato direto, sem depender só de indicação.\n" +
				"Posso te mostrar em 10 minutos como ficaria pra vocês?",
		},
		{
			Title:    "Primeiro Contato - Site Ruim/Linktree",
			Category: CategoryInitial,
			Content: "Oi [Nome]! Vi o perfil de vocês e o trabalho é muito bom. Só percebi que o link do perfil leva pra uma página que provavelmente não tá convertendo visitante em cliente.\n" +
				"Tenho uma estrutura específica pra [nicho] que transforma esse tráfego em contatos reais pelo WhatsApp.\n" +
				"Faz sentido eu te mostrar como ficaria?",
		},
		{
			Title:    "Follow-up - Após 3 dias",
			Category: CategoryFollowup,
			Content: "Oi [Nome], tudo bem? Passei aqui pra ver se você teve chance de ver minha mensagem anterior.\n" +
				"Se não for o momento certo, sem problema, é só me falar. Mas se tiver curiosidade, levo menos de 10 minutos pra mostrar o que tenho em mente pra vocês.",
		},
		{
			Title:    "Envio de Proposta",
			Category: CategoryProposal,
			Content:  "USAR PDF",
		},
		{
			Title:    "Fechamento - Criar Urgência",
			Category: CategoryClosing,
			Content: "[NOME], tudo certo?\n\n" +
				"Sobre o site da [NOME DA EMPRESA], tenho uma notícia:\n\n" +
				"Estou com uma agenda apertada este mês, mas consegui reservar uma vaga para você.\n\n" +
				"O que acha? Garantimos sua vaga?",
		},
	}
}
