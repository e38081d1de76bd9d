package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

// MigrateOrphansUseCase hands ownerless legacy leads to the first principal
// that logs in without leads of their own.
type MigrateOrphansUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Events LeadEvents
}

func NewMigrateOrphansUseCase(repo entity.LeadRepositoryInterface, events LeadEvents) *MigrateOrphansUseCase {
	return &MigrateOrphansUseCase{Repo: repo, Events: eventsOrNoop(events)}
}

// Execute returns how many leads were assigned to the principal. The check
// and the claim are not locked together: two first logins can race, but
// AssignOwner only stamps rows that are still ownerless, so a lead is never
// claimed twice.
func (uc *MigrateOrphansUseCase) Execute(ctx context.Context, p entity.Principal) (int, error) {
	if err := requirePrincipal(p); err != nil {
		return 0, err
	}

	orphans, err := uc.Repo.ListOrphanIDs(ctx)
	if err != nil {
		return 0, storeError("falha ao buscar leads sem dono", err)
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	owned, err := uc.Repo.CountByOwner(ctx, p.ID)
	if err != nil {
		return 0, storeError("falha ao contar leads do usuário", err)
	}
	if owned > 0 {
		return 0, nil
	}

	migrated, err := uc.Repo.AssignOwner(ctx, orphans, p.ID)
	if err != nil {
		return 0, storeError("falha ao migrar leads antigos", err)
	}

	if migrated > 0 {
		log.Printf("🔄 %d leads migrados para o usuário %s", migrated, p.ID)
		eventsOrNoop(uc.Events).OrphansMigrated(migrated)
	}
	return migrated, nil
}
