package twofactor

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/accounts"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/logger"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/mail"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/codes"
)

const (
	totpIssuer = "Harmony Pets"

	emailCodeTTL    = 10 * time.Minute
	emailCodeDigits = 6
	emailCodePrefix = "2fa:"

	backupCodeCount = 10
	backupCodeBytes = 4 // 8 caracteres hex
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("two-factor not configured")
	ErrInvalidCode   = errors.New("invalid verification code")
	ErrWrongPassword = errors.New("wrong password")
)

// Users é o recorte do serviço de contas que o 2FA consome.
type Users interface {
	GetByID(ctx context.Context, id string) (accounts.User, error)
	CheckPassword(ctx context.Context, userID, password string) error
}

type Service struct {
	repo   Repository
	codes  codes.Store
	users  Users
	mailer mail.Mailer
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, codeStore codes.Store, users Users, mailer mail.Mailer, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		codes:  codeStore,
		users:  users,
		mailer: mailer,
		log:    log,
		now:    time.Now,
	}
}

// Enabled implementa accounts.TwoFactorChecker.
func (s *Service) Enabled(ctx context.Context, userID string) (bool, error) {
	st, err := s.repo.Get(ctx, userID)
	if err != nil {
		return false, nil
	}
	return st.Enabled, nil
}

type SetupResult struct {
	Method Method

	// Preenchidos só para TOTP.
	Secret     string
	OTPAuthURL string
	QRCodePNG  string // PNG em base64 para exibir no app
}

// Setup configura (ou reconfigura) a segunda etapa. A ativação acontece na
// primeira verificação bem-sucedida.
func (s *Service) Setup(ctx context.Context, userID string, method Method) (SetupResult, error) {
	if strings.TrimSpace(userID) == "" || !method.Valid() {
		return SetupResult{}, ErrInvalidInput
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return SetupResult{}, fmt.Errorf("twofactor: %w", err)
	}

	now := s.now()
	st, err := s.repo.Get(ctx, userID)
	if err != nil {
		st = Settings{UserID: userID, CreatedAt: now}
	}
	st.Method = method
	st.UpdatedAt = now

	out := SetupResult{Method: method}

	if method == MethodTOTP {
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      totpIssuer,
			AccountName: u.Email,
		})
		if err != nil {
			return SetupResult{}, fmt.Errorf("twofactor: gerar segredo: %w", err)
		}

		png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
		if err != nil {
			return SetupResult{}, fmt.Errorf("twofactor: gerar qr code: %w", err)
		}

		st.TOTPSecret = key.Secret()
		out.Secret = key.Secret()
		out.OTPAuthURL = key.URL()
		out.QRCodePNG = base64.StdEncoding.EncodeToString(png)
	}

	if err := s.repo.Upsert(ctx, st); err != nil {
		return SetupResult{}, err
	}
	return out, nil
}

// SendEmailCode gera um código de 6 dígitos, guarda com TTL de 10 minutos e
// envia por e-mail.
func (s *Service) SendEmailCode(ctx context.Context, userID string) error {
	if _, err := s.repo.Get(ctx, userID); err != nil {
		return ErrNotFound
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("twofactor: %w", err)
	}

	code, err := numericCode(emailCodeDigits)
	if err != nil {
		return err
	}
	if err := s.codes.Set(ctx, emailCodePrefix+userID, code, emailCodeTTL); err != nil {
		return err
	}

	body := fmt.Sprintf("Olá %s,\n\nSeu código de verificação é: %s\n\nEle expira em 10 minutos.\n\nAtenciosamente,\nEquipe Harmony Pets", u.Name, code)
	if err := s.mailer.Send(ctx, u.Email, "Código de Verificação - Harmony Pets", body); err != nil {
		s.log.Warn("falha ao enviar código 2FA", map[string]any{"user_id": userID, "err": err.Error()})
		return err
	}
	return nil
}

// VerifyResult diz como a verificação foi satisfeita.
type VerifyResult struct {
	Method     Method
	VerifiedAt time.Time

	// RequireEveryLogin acompanha a preferência do usuário para o token
	// emitido refletir a dispensa da janela de revalidação.
	RequireEveryLogin bool
}

// Verify aceita código TOTP (janela ±1), código enviado por e-mail ou código
// de backup (consumido no uso). A primeira verificação ativa a segunda etapa.
func (s *Service) Verify(ctx context.Context, userID, code string) (VerifyResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return VerifyResult{}, ErrInvalidInput
	}

	st, err := s.repo.Get(ctx, userID)
	if err != nil {
		return VerifyResult{}, ErrNotFound
	}

	now := s.now()
	method, ok := s.match(ctx, st, code, now)
	if !ok {
		return VerifyResult{}, ErrInvalidCode
	}

	if method == MethodBackup {
		remaining := make([]string, 0, len(st.BackupCodes))
		for _, c := range st.BackupCodes {
			if c != code {
				remaining = append(remaining, c)
			}
		}
		st.BackupCodes = remaining
	}
	if method == MethodEmail {
		_ = s.codes.Del(ctx, emailCodePrefix+userID)
	}

	if !st.Enabled {
		st.Enabled = true
		st.EnabledAt = &now
	}
	st.LastUsedAt = &now
	st.UpdatedAt = now

	if err := s.repo.Upsert(ctx, st); err != nil {
		return VerifyResult{}, err
	}
	return VerifyResult{Method: method, VerifiedAt: now, RequireEveryLogin: st.RequireEveryLogin}, nil
}

func (s *Service) match(ctx context.Context, st Settings, code string, now time.Time) (Method, bool) {
	if st.TOTPSecret != "" {
		ok, err := totp.ValidateCustom(code, st.TOTPSecret, now, totp.ValidateOpts{
			Period:    30,
			Skew:      1,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		if err == nil && ok {
			return MethodTOTP, true
		}
	}

	if stored, err := s.codes.Get(ctx, emailCodePrefix+st.UserID); err == nil && stored == code {
		return MethodEmail, true
	}

	if st.hasBackupCode(code) {
		return MethodBackup, true
	}
	return "", false
}

// GenerateBackupCodes substitui os códigos de backup por 10 novos.
func (s *Service) GenerateBackupCodes(ctx context.Context, userID string) ([]string, error) {
	st, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, ErrNotFound
	}

	out := make([]string, 0, backupCodeCount)
	for i := 0; i < backupCodeCount; i++ {
		buf := make([]byte, backupCodeBytes)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("twofactor: %w", err)
		}
		out = append(out, hex.EncodeToString(buf))
	}

	st.BackupCodes = out
	st.UpdatedAt = s.now()
	if err := s.repo.Upsert(ctx, st); err != nil {
		return nil, err
	}
	return out, nil
}

// Disable remove a configuração. Exige a senha atual.
func (s *Service) Disable(ctx context.Context, userID, password string) error {
	if _, err := s.repo.Get(ctx, userID); err != nil {
		return ErrNotFound
	}
	if err := s.users.CheckPassword(ctx, userID, password); err != nil {
		return ErrWrongPassword
	}
	_ = s.codes.Del(ctx, emailCodePrefix+userID)
	return s.repo.Delete(ctx, userID)
}

// SetPreference troca o método preferido e a exigência em todo login.
func (s *Service) SetPreference(ctx context.Context, userID string, method Method, requireEveryLogin bool) (Settings, error) {
	if !method.Valid() {
		return Settings{}, ErrInvalidInput
	}
	st, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Settings{}, ErrNotFound
	}

	st.Method = method
	st.RequireEveryLogin = requireEveryLogin
	st.UpdatedAt = s.now()

	if err := s.repo.Upsert(ctx, st); err != nil {
		return Settings{}, err
	}
	return st, nil
}

// Status devolve a configuração atual (sem o segredo).
func (s *Service) Status(ctx context.Context, userID string) (Settings, error) {
	st, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Settings{}, ErrNotFound
	}
	st.TOTPSecret = ""
	st.BackupCodes = nil
	return st, nil
}

// numericCode gera um código decimal de n dígitos com zeros à esquerda.
func numericCode(n int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < n; i++ {
		max.Mul(max, big.NewInt(10))
	}
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("twofactor: %w", err)
	}
	return fmt.Sprintf("%0*d", n, v), nil
}
