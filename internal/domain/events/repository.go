package events

import (
	"context"
	"time"
)

// Repository es la superficie mínima sobre el documento Event:
// alta, lectura por id, replace completo, update parcial del roster,
// borrado y query con filtros.
//
// Los adapters devuelven errors.Is(err, ErrNotFound) cuando el id no existe.
type Repository interface {
	Create(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)

	// Replace pisa el documento completo (mismo id).
	Replace(ctx context.Context, e Event) error

	// UpdateParticipants toca solo el roster, no el resto de campos.
	UpdateParticipants(ctx context.Context, id string, participants []string, updatedAt time.Time) error

	Delete(ctx context.Context, id string) error

	List(ctx context.Context, f ListFilter) ([]Event, error)
}

// ListFilter filtra el listado. Orden: scheduled_at asc.
type ListFilter struct {
	CreatorID string
	Kind      Kind

	// Solo eventos con scheduled_at >= From.
	From *time.Time

	Limit int
}
