package lostpets

import (
	"time"

	"doggo-community/internal/domain/geo"
)

// Report es un aviso de mascota perdida. Solo el dueño del aviso puede
// editarlo, borrarlo o marcarlo como encontrado.
type Report struct {
	ID      string
	OwnerID string

	PetName     string
	Breed       string
	Description string
	PhotoURL    string

	LastSeenAt time.Time
	Location   geo.Point

	Found bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
