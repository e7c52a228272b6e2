package accounts

import "context"

// Los adapters devuelven errors.Is(err, ErrNotFound) cuando no existe.
type Repository interface {
	Create(ctx context.Context, a Account) error
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
}
