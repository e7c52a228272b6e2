package profiles

import "context"

// Los adapters devuelven errors.Is(err, ErrNotFound) cuando no existe.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, error)

	// Save crea o reemplaza el documento completo (upsert).
	Save(ctx context.Context, p Profile) error
}
