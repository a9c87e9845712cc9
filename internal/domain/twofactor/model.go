package twofactor

import "time"

// Method da segunda etapa.
type Method string

const (
	MethodTOTP  Method = "totp"
	MethodEmail Method = "email"

	// MethodBackup não é configurável: aparece só como método usado numa
	// verificação feita com código de backup.
	MethodBackup Method = "backup"
)

func (m Method) Valid() bool { return m == MethodTOTP || m == MethodEmail }

// Settings guarda a configuração de segunda etapa de um usuário.
type Settings struct {
	UserID string

	Enabled bool
	Method  Method

	// TOTPSecret em base32, presente quando o método TOTP foi configurado.
	TOTPSecret string

	// BackupCodes ainda não usados. Cada código é consumido na verificação.
	BackupCodes []string

	// RequireEveryLogin exige a segunda etapa em todo login, ignorando a
	// janela de 4h do gate.
	RequireEveryLogin bool

	EnabledAt  *time.Time
	LastUsedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// hasBackupCode reporta se code está entre os códigos não usados.
func (s Settings) hasBackupCode(code string) bool {
	for _, c := range s.BackupCodes {
		if c == code {
			return true
		}
	}
	return false
}
