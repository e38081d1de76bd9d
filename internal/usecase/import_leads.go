package usecase

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

// ImportBatchSize keeps every group under the store's per-transaction
// mutation ceiling.
const ImportBatchSize = 400

const (
	ChannelUpload = "upload"
	ChannelQueue  = "queue"
	ChannelCLI    = "cli"
)

type ImportLeadsInput struct {
	Territory  string
	Candidates []entity.LeadInput
	Channel    string
	OnProgress ProgressFunc
}

// ImportLeadsUseCase commits externally produced candidates in groups, keyed
// by company name plus territory so re-imports merge instead of duplicating.
type ImportLeadsUseCase struct {
	Repo      entity.LeadRepositoryInterface
	Events    LeadEvents
	Now       func() time.Time
	BatchSize int
}

func NewImportLeadsUseCase(repo entity.LeadRepositoryInterface, events LeadEvents) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{
		Repo:      repo,
		Events:    eventsOrNoop(events),
		Now:       time.Now,
		BatchSize: ImportBatchSize,
	}
}

// Execute returns the number of leads written. When a group fails the error is
// a *PartialImportError carrying the count committed before it.
func (uc *ImportLeadsUseCase) Execute(ctx context.Context, p entity.Principal, input ImportLeadsInput) (int, error) {
	if err := requirePrincipal(p); err != nil {
		return 0, err
	}
	total := len(input.Candidates)
	if total == 0 {
		return 0, nil
	}
	territory := strings.TrimSpace(input.Territory)
	if territory == "" {
		return 0, validationError("validation failed: territory (is required)")
	}

	size := uc.BatchSize
	if size <= 0 {
		size = ImportBatchSize
	}
	now := clockOrNow(uc.Now)()
	events := eventsOrNoop(uc.Events)

	committed := 0
	processed := 0
	for start := 0; start < total; start += size {
		end := min(start+size, total)

		group := uc.prepareGroup(p.ID, territory, input.Candidates[start:end], now)
		n, err := uc.Repo.UpsertBatch(ctx, p.ID, group)
		if err != nil {
			log.Printf("❌ Importação falhou no grupo %d-%d: %v", start, end, err)
			events.LeadsImported(input.Channel, committed)
			return committed, &PartialImportError{Committed: committed, Err: storeError("falha ao gravar grupo", err)}
		}
		committed += n
		processed = end

		if input.OnProgress != nil {
			input.OnProgress(int(math.Round(float64(processed) / float64(total) * 100)))
		}
	}

	events.LeadsImported(input.Channel, committed)
	log.Printf("✅ %d leads importados/atualizados de %d em %q", committed, total, territory)
	return committed, nil
}

// prepareGroup normalizes candidates and collapses duplicate keys inside the
// group, keeping the last occurrence.
func (uc *ImportLeadsUseCase) prepareGroup(ownerID, territory string, candidates []entity.LeadInput, now time.Time) []entity.Lead {
	index := make(map[string]int, len(candidates))
	out := make([]entity.Lead, 0, len(candidates))

	for _, c := range candidates {
		c.Territory = &territory
		if c.Source == nil {
			src := entity.SourceScraper
			c.Source = &src
		}
		company := ""
		if c.CompanyName != nil {
			company = *c.CompanyName
		}
		c.ID = entity.DeriveLeadID(company, territory)

		lead := entity.NormalizeLead(ownerID, c, now)
		lead.Sanitize()

		if i, ok := index[lead.ID]; ok {
			out[i] = lead
			continue
		}
		index[lead.ID] = len(out)
		out = append(out, lead)
	}
	return out
}
