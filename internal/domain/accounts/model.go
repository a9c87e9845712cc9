package accounts

import (
	"time"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/auth"
)

// User é a identidade base da plataforma. Os dados de perfil (CPF/CNPJ,
// endereço, coordenadas) ficam em profiles.
type User struct {
	ID    string
	Email string
	Name  string
	Role  auth.Role

	PasswordHash string
	Active       bool

	// Controle de tentativas de login (bloqueio temporário).
	FailedLogins int
	BlockedUntil *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Blocked reporta se o usuário está bloqueado para login em now.
func (u User) Blocked(now time.Time) bool {
	return u.BlockedUntil != nil && now.Before(*u.BlockedUntil)
}
