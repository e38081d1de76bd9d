package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

// LeadService is the tenant scoping layer over the lead store. The owner of
// every read and write is the principal passed in, never a caller field.
type LeadService struct {
	Repo   entity.LeadRepositoryInterface
	Events LeadEvents
	Now    func() time.Time
}

func NewLeadService(repo entity.LeadRepositoryInterface, events LeadEvents) *LeadService {
	return &LeadService{
		Repo:   repo,
		Events: eventsOrNoop(events),
		Now:    time.Now,
	}
}

func (s *LeadService) List(ctx context.Context, p entity.Principal, filter entity.LeadFilter) ([]entity.Lead, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	leads, err := s.Repo.List(ctx, p.ID, filter)
	if err != nil {
		return nil, storeError("falha ao listar leads", err)
	}
	return leads, nil
}

func (s *LeadService) Get(ctx context.Context, p entity.Principal, id string) (*entity.Lead, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	lead, err := s.Repo.FindByID(ctx, p.ID, id)
	if err != nil {
		return nil, mapRepoError("falha ao buscar lead", err)
	}
	return lead, nil
}

func (s *LeadService) Add(ctx context.Context, p entity.Principal, in entity.LeadInput) (*entity.Lead, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := asDomainError(ValidateLeadInput(in)); err != nil {
		return nil, err
	}

	in.ID = ""
	lead := entity.NormalizeLead(p.ID, in, clockOrNow(s.Now)())
	if err := s.Repo.Create(ctx, &lead); err != nil {
		return nil, storeError("falha ao criar lead", err)
	}

	log.Printf("✅ Lead adicionado: %s (%s)", lead.ID, lead.CompanyName)
	return &lead, nil
}

func (s *LeadService) Update(ctx context.Context, p entity.Principal, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := asDomainError(ValidateLeadPatch(patch)); err != nil {
		return nil, err
	}

	lead, err := s.Repo.FindByID(ctx, p.ID, id)
	if err != nil {
		return nil, mapRepoError("falha ao buscar lead", err)
	}
	from := lead.Stage

	lead.Apply(patch, clockOrNow(s.Now)())
	if err := s.Repo.Update(ctx, lead); err != nil {
		return nil, mapRepoError("falha ao atualizar lead", err)
	}

	if lead.Stage != from {
		eventsOrNoop(s.Events).StageChanged(from, lead.Stage)
	}
	return lead, nil
}

// ChangeStage moves a lead to any known stage; no transition is rejected.
func (s *LeadService) ChangeStage(ctx context.Context, p entity.Principal, id string, stage entity.Stage) (*entity.Lead, error) {
	if !stage.Valid() {
		return nil, &DomainError{Code: CodeInvalidStage, Message: "stage inválido: " + string(stage), Err: entity.ErrInvalidStage}
	}
	return s.Update(ctx, p, id, entity.LeadPatch{Stage: &stage})
}

// MarkContacted stamps the last contact time of a lead.
func (s *LeadService) MarkContacted(ctx context.Context, p entity.Principal, id string, at time.Time) (*entity.Lead, error) {
	return s.Update(ctx, p, id, entity.LeadPatch{LastContactAt: &at})
}

func (s *LeadService) Delete(ctx context.Context, p entity.Principal, id string) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, p.ID, id); err != nil {
		return mapRepoError("falha ao remover lead", err)
	}
	log.Printf("🗑️ Lead removido: %s", id)
	return nil
}

// Territories lists the distinct territories among the principal's leads.
func (s *LeadService) Territories(ctx context.Context, p entity.Principal) ([]string, error) {
	leads, err := s.List(ctx, p, entity.LeadFilter{})
	if err != nil {
		return nil, err
	}
	return entity.Territories(leads), nil
}

func (s *LeadService) Stats(ctx context.Context, p entity.Principal, filter entity.LeadFilter) (entity.Stats, error) {
	leads, err := s.List(ctx, p, filter)
	if err != nil {
		return entity.Stats{}, err
	}
	return entity.ComputeStats(leads), nil
}

// Export returns every lead of the principal as stored, for backups.
func (s *LeadService) Export(ctx context.Context, p entity.Principal) ([]entity.Lead, error) {
	return s.List(ctx, p, entity.LeadFilter{})
}

// BackupFilename is the export file name for the given day.
func BackupFilename(day time.Time) string {
	return "leads_backup_" + day.Format("2006-01-02") + ".json"
}
