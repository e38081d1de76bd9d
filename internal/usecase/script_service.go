package usecase

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

type ScriptService struct {
	Repo  entity.ScriptRepositoryInterface
	Leads entity.LeadRepositoryInterface
	Now   func() time.Time
}

func NewScriptService(repo entity.ScriptRepositoryInterface, leads entity.LeadRepositoryInterface) *ScriptService {
	return &ScriptService{Repo: repo, Leads: leads, Now: time.Now}
}

type AddScriptInput struct {
	Title    string                `json:"title"`
	Content  string                `json:"content"`
	Category entity.ScriptCategory `json:"category"`
}

type RenderedScript struct {
	ScriptID     string `json:"script_id"`
	LeadID       string `json:"lead_id"`
	Text         string `json:"text"`
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
}

func (s *ScriptService) List(ctx context.Context, p entity.Principal) ([]entity.Script, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	scripts, err := s.Repo.List(ctx, p.ID)
	if err != nil {
		return nil, storeError("falha ao listar scripts", err)
	}
	return scripts, nil
}

func (s *ScriptService) Add(ctx context.Context, p entity.Principal, in AddScriptInput) (*entity.Script, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	script := entity.NewScript(p.ID, in.Title, in.Content, in.Category, clockOrNow(s.Now)())
	if err := script.Validate(); err != nil {
		return nil, validationError("validation failed: " + err.Error())
	}
	if err := s.Repo.Create(ctx, script); err != nil {
		return nil, storeError("falha ao criar script", err)
	}
	return script, nil
}

func (s *ScriptService) Update(ctx context.Context, p entity.Principal, id string, patch entity.ScriptPatch) (*entity.Script, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	script, err := s.Repo.FindByID(ctx, p.ID, id)
	if err != nil {
		return nil, mapRepoError("falha ao buscar script", err)
	}
	script.Apply(patch, clockOrNow(s.Now)())
	if err := script.Validate(); err != nil {
		return nil, validationError("validation failed: " + err.Error())
	}
	if err := s.Repo.Update(ctx, script); err != nil {
		return nil, mapRepoError("falha ao atualizar script", err)
	}
	return script, nil
}

func (s *ScriptService) Delete(ctx context.Context, p entity.Principal, id string) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, p.ID, id); err != nil {
		return mapRepoError("falha ao remover script", err)
	}
	return nil
}

// SeedDefaults creates the ready-made templates when the principal has no
// scripts yet. Returns how many were created.
func (s *ScriptService) SeedDefaults(ctx context.Context, p entity.Principal) (int, error) {
	existing, err := s.List(ctx, p)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	now := clockOrNow(s.Now)()
	created := 0
	for i, d := range entity.DefaultScripts() {
		// Offset keeps the template order stable under oldest-first sorting.
		script := entity.NewScript(p.ID, d.Title, d.Content, d.Category, now.Add(time.Duration(i)*time.Millisecond))
		if err := s.Repo.Create(ctx, script); err != nil {
			return created, storeError("falha ao criar scripts padrão", err)
		}
		created++
	}
	log.Printf("📝 %d scripts padrão criados para %s", created, p.ID)
	return created, nil
}

// Render fills a script's placeholders with one of the principal's leads.
func (s *ScriptService) Render(ctx context.Context, p entity.Principal, scriptID, leadID string) (*RenderedScript, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	script, err := s.Repo.FindByID(ctx, p.ID, scriptID)
	if err != nil {
		return nil, mapRepoError("falha ao buscar script", err)
	}
	lead, err := s.Leads.FindByID(ctx, p.ID, leadID)
	if err != nil {
		return nil, mapRepoError("falha ao buscar lead", err)
	}

	text := script.Render(*lead)
	out := &RenderedScript{ScriptID: script.ID, LeadID: lead.ID, Text: text}
	if link := lead.WhatsAppLink(); link != "" {
		out.WhatsAppLink = link + "?text=" + url.QueryEscape(text)
	}
	return out, nil
}
