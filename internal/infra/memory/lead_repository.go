package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-prospect/internal/entity"
)

// LeadRepository keeps leads in process memory. Used for STORE_DRIVER=memory
// and as the store double in tests.
type LeadRepository struct {
	mu    sync.RWMutex
	leads map[string]entity.Lead
}

func NewLeadRepository() *LeadRepository {
	return &LeadRepository{leads: make(map[string]entity.Lead)}
}

func (r *LeadRepository) List(ctx context.Context, ownerID string, filter entity.LeadFilter) ([]entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []entity.Lead{}
	for _, l := range r.leads {
		if l.OwnerID == ownerID && filter.Match(l) {
			out = append(out, clone(l))
		}
	}
	entity.SortNewestFirst(out)
	return out, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leads[id]
	if !ok || l.OwnerID != ownerID {
		return nil, entity.ErrLeadNotFound
	}
	c := clone(l)
	return &c, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if _, exists := r.leads[lead.ID]; exists {
		return entity.ErrLeadAlreadyExists
	}
	r.leads[lead.ID] = clone(*lead)
	return nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.leads[lead.ID]
	if !ok || current.OwnerID != lead.OwnerID {
		return entity.ErrLeadNotFound
	}
	next := clone(*lead)
	next.CreatedAt = current.CreatedAt
	r.leads[lead.ID] = next
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leads[id]
	if !ok || l.OwnerID != ownerID {
		return entity.ErrLeadNotFound
	}
	delete(r.leads, id)
	return nil
}

// UpsertBatch merges the group under one lock. Ids owned by someone else are
// left as they are and not counted.
func (r *LeadRepository) UpsertBatch(ctx context.Context, ownerID string, leads []entity.Lead) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	written := 0
	for _, l := range leads {
		l.OwnerID = ownerID
		if current, ok := r.leads[l.ID]; ok {
			if current.OwnerID != ownerID {
				continue
			}
			l.CreatedAt = current.CreatedAt
			if l.UpdatedAt.Before(l.CreatedAt) {
				l.UpdatedAt = l.CreatedAt
			}
		}
		r.leads[l.ID] = clone(l)
		written++
	}
	return written, nil
}

func (r *LeadRepository) ListOrphanIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, l := range r.leads {
		if l.OwnerID == "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *LeadRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, l := range r.leads {
		if l.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *LeadRepository) AssignOwner(ctx context.Context, ids []string, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, id := range ids {
		l, ok := r.leads[id]
		if !ok || l.OwnerID != "" {
			continue
		}
		l.OwnerID = ownerID
		r.leads[id] = l
		n++
	}
	return n, nil
}

// Seed stores leads as given, owner included. Meant for legacy fixtures.
func (r *LeadRepository) Seed(leads ...entity.Lead) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range leads {
		r.leads[l.ID] = clone(l)
	}
}

func clone(l entity.Lead) entity.Lead {
	if l.LastContactAt != nil {
		t := *l.LastContactAt
		l.LastContactAt = &t
	}
	return l
}
