package memory

import (
	"context"
	"sync"

	"doggo-community/internal/domain/accounts"
)

// AccountRepo guarda cuentas en memoria. El índice por email cumple el
// rol del unique index de postgres.
type AccountRepo struct {
	mu      sync.RWMutex
	byID    map[string]accounts.Account
	byEmail map[string]string // email -> id
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		byID:    map[string]accounts.Account{},
		byEmail: map[string]string{},
	}
}

func (r *AccountRepo) Create(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[a.Email]; ok {
		return accounts.ErrEmailTaken
	}
	r.byID[a.ID] = a
	r.byEmail[a.Email] = a.ID
	return nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return accounts.Account{}, accounts.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return accounts.Account{}, accounts.ErrNotFound
	}
	return a, nil
}
