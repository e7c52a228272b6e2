package pets

import "time"

// Sex define el sexo de la mascota.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Pet es el perfil de un perro registrado por un usuario.
type Pet struct {
	ID          string
	OwnerUserID string

	Name  string
	Breed string
	Sex   Sex

	BirthDate *time.Time
	PhotoURL  string
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgeYears calcula la edad en años cumplidos a partir de BirthDate.
// Devuelve -1 si no hay fecha de nacimiento.
func (p Pet) AgeYears(now time.Time) int {
	if p.BirthDate == nil {
		return -1
	}
	bd := *p.BirthDate
	years := now.Year() - bd.Year()
	// Todavía no cumplió años este año
	if now.Month() < bd.Month() || (now.Month() == bd.Month() && now.Day() < bd.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
