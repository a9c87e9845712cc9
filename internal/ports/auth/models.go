package auth

import "time"

// Role papel do usuário na plataforma.
type Role string

const (
	RoleAdopter      Role = "adopter"      // interessado em adoção
	RoleOrganization Role = "organization" // local de adoção
	RoleAdmin        Role = "admin"
)

// Claims é o contexto de autenticação extraído do token.
//
// O estado da segunda etapa viaja aqui de forma explícita (verified_at +
// method) em vez de flags soltas de sessão: o gate de 2FA só compara valores.
type Claims struct {
	UserID string
	Email  string
	Role   Role

	// TwoFactorPending marca login de usuário com 2FA habilitado que ainda
	// não completou a segunda etapa. Token pendente só serve para /2fa/verify.
	TwoFactorPending bool

	TwoFactorVerifiedAt *time.Time
	TwoFactorMethod     string // totp, email ou backup

	// TwoFactorEveryLogin reflete a preferência "exigir em todo login": a
	// verificação vale pela vida do token, sem a janela de revalidação.
	TwoFactorEveryLogin bool
}
