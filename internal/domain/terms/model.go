package terms

import "time"

// DefaultVersion é a versão vigente dos termos quando o cliente não informa.
const DefaultVersion = "1.0"

// Acceptance registra o aceite dos termos de uso e da LGPD por um usuário,
// com os metadados exigidos para auditoria (IP, user agent, versão).
type Acceptance struct {
	ID     string
	UserID string

	TermsOfUse bool
	LGPD       bool

	Version   string
	IP        string
	UserAgent string

	AcceptedAt time.Time

	Revoked   bool
	RevokedAt *time.Time

	UpdatedAt time.Time
}

// Complete reporta se o aceite cobre os dois documentos e segue vigente.
func (a Acceptance) Complete() bool {
	return a.TermsOfUse && a.LGPD && !a.Revoked
}
