package chat

import "context"

type Repository interface {
	Create(ctx context.Context, m Message) error

	// ListByEvent devuelve los mensajes del evento, del más viejo al más nuevo.
	ListByEvent(ctx context.Context, eventID string, limit int) ([]Message, error)

	// DeleteByEvent borra todo el chat de un evento (limpieza al borrar
	// el evento).
	DeleteByEvent(ctx context.Context, eventID string) error
}
