package memory

import (
	"context"
	"sync"

	"doggo-community/internal/domain/profiles"
)

// ProfileRepo guarda perfiles en memoria, indexados por user id.
type ProfileRepo struct {
	mu   sync.RWMutex
	data map[string]profiles.Profile
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{data: map[string]profiles.Profile{}}
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (profiles.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.data[userID]
	if !ok {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	p.PetIDs = append([]string(nil), p.PetIDs...)
	return p, nil
}

func (r *ProfileRepo) Save(ctx context.Context, p profiles.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.PetIDs = append([]string(nil), p.PetIDs...)
	r.data[p.UserID] = p
	return nil
}
