package accounts

import "time"

// Account son las credenciales de un usuario. El perfil público vive
// en el módulo profiles, con el mismo UserID.
type Account struct {
	ID    string
	Email string

	PasswordHash string

	CreatedAt time.Time
}
