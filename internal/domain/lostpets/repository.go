package lostpets

import "context"

// Los adapters devuelven errors.Is(err, ErrNotFound) cuando el id no existe.
type Repository interface {
	Create(ctx context.Context, rep Report) error
	GetByID(ctx context.Context, id string) (Report, error)
	Replace(ctx context.Context, rep Report) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]Report, error)
}

// ListFilter filtra el listado. Orden: created_at desc (lo más nuevo primero).
type ListFilter struct {
	OwnerID string

	// Solo avisos todavía abiertos (found = false).
	OnlyOpen bool

	Limit int
}
