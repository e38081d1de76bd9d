package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-prospect/internal/entity"
)

type ScriptRepository struct {
	mu      sync.RWMutex
	scripts map[string]entity.Script
}

func NewScriptRepository() *ScriptRepository {
	return &ScriptRepository{scripts: make(map[string]entity.Script)}
}

func (r *ScriptRepository) List(ctx context.Context, ownerID string) ([]entity.Script, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []entity.Script{}
	for _, s := range r.scripts {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	entity.SortOldestFirst(out)
	return out, nil
}

func (r *ScriptRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Script, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.scripts[id]
	if !ok || s.OwnerID != ownerID {
		return nil, entity.ErrScriptNotFound
	}
	return &s, nil
}

func (r *ScriptRepository) Create(ctx context.Context, s *entity.Script) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	r.scripts[s.ID] = *s
	return nil
}

func (r *ScriptRepository) Update(ctx context.Context, s *entity.Script) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.scripts[s.ID]
	if !ok || current.OwnerID != s.OwnerID {
		return entity.ErrScriptNotFound
	}
	next := *s
	next.CreatedAt = current.CreatedAt
	r.scripts[s.ID] = next
	return nil
}

func (r *ScriptRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.scripts[id]
	if !ok || s.OwnerID != ownerID {
		return entity.ErrScriptNotFound
	}
	delete(r.scripts, id)
	return nil
}
