package memory

import (
	"context"
	"sort"
	"sync"

	"doggo-community/internal/domain/lostpets"
)

// LostPetRepo guarda avisos de mascotas perdidas en memoria.
type LostPetRepo struct {
	mu   sync.RWMutex
	data map[string]lostpets.Report
}

func NewLostPetRepo() *LostPetRepo {
	return &LostPetRepo{data: map[string]lostpets.Report{}}
}

func (r *LostPetRepo) Create(ctx context.Context, rep lostpets.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[rep.ID] = rep
	return nil
}

func (r *LostPetRepo) GetByID(ctx context.Context, id string) (lostpets.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.data[id]
	if !ok {
		return lostpets.Report{}, lostpets.ErrNotFound
	}
	return rep, nil
}

func (r *LostPetRepo) Replace(ctx context.Context, rep lostpets.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[rep.ID]; !ok {
		return lostpets.ErrNotFound
	}
	r.data[rep.ID] = rep
	return nil
}

func (r *LostPetRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return lostpets.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *LostPetRepo) List(ctx context.Context, f lostpets.ListFilter) ([]lostpets.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lostpets.Report, 0, len(r.data))
	for _, rep := range r.data {
		if f.OwnerID != "" && rep.OwnerID != f.OwnerID {
			continue
		}
		if f.OnlyOpen && rep.Found {
			continue
		}
		out = append(out, rep)
	}

	// Lo más nuevo primero.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
