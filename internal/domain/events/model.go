package events

import (
	"time"

	"doggo-community/internal/domain/geo"
)

// Event representa una quedada de la comunidad (paseo, juntada en el
// parque, etc.) con cupo de participantes.
type Event struct {
	ID          string
	Title       string
	Description string
	Kind        Kind

	ScheduledAt time.Time
	Location    geo.Point

	CreatorID string

	// Cupo máximo de participantes. El orden de Participants es el orden
	// en que se unieron; nunca hay ids repetidos.
	Capacity     int
	Participants []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Event) HasParticipant(userID string) bool {
	for _, id := range e.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

func (e Event) IsFull() bool {
	return len(e.Participants) >= e.Capacity
}
