package profiles

import "time"

// Profile es el perfil público de un usuario. PetIDs es la lista de
// mascotas del usuario (referencia inversa de Pet.OwnerUserID); se
// mantiene al crear/borrar mascotas.
type Profile struct {
	UserID string

	DisplayName string
	Bio         string
	City        string
	PhotoURL    string

	PetIDs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Profile) HasPet(petID string) bool {
	for _, id := range p.PetIDs {
		if id == petID {
			return true
		}
	}
	return false
}
