package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/logger"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/mail"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/auth"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/codes"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBlocked            = errors.New("account temporarily blocked")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

const (
	// Política do original: 5 falhas seguidas bloqueiam por 15 minutos.
	maxFailedLogins = 5
	blockDuration   = 15 * time.Minute

	resetTokenTTL  = 30 * time.Minute
	minPasswordLen = 8
)

// TwoFactorChecker informa se o usuário tem segunda etapa habilitada.
// Implementado por twofactor.Service; interface local para não acoplar.
type TwoFactorChecker interface {
	Enabled(ctx context.Context, userID string) (bool, error)
}

// ProfileScrubber apaga dados pessoais do perfil vinculado (LGPD).
type ProfileScrubber interface {
	Scrub(ctx context.Context, userID string) error
}

type Service struct {
	repo     Repository
	codes    codes.Store
	mailer   mail.Mailer
	twoFA    TwoFactorChecker
	scrubber ProfileScrubber
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, store codes.Store, mailer mail.Mailer, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		codes:  store,
		mailer: mailer,
		log:    log,
		now:    time.Now,
	}
}

// SetTwoFactorChecker injeta o serviço de 2FA (resolvido no router para
// evitar ciclo de construção).
func (s *Service) SetTwoFactorChecker(c TwoFactorChecker) { s.twoFA = c }

// SetProfileScrubber injeta o serviço de perfis para anonimização.
func (s *Service) SetProfileScrubber(p ProfileScrubber) { s.scrubber = p }

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     auth.Role
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)

	if email == "" || !strings.Contains(email, "@") || name == "" {
		return User{}, ErrInvalidInput
	}
	if len(in.Password) < minPasswordLen {
		return User{}, ErrInvalidInput
	}
	if in.Role != auth.RoleAdopter && in.Role != auth.RoleOrganization {
		return User{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         in.Role,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

type LoginResult struct {
	User User

	// TwoFactorRequired indica que o login só se completa depois da segunda
	// etapa: o token emitido deve ser pendente.
	TwoFactorRequired bool
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !u.Active {
		return LoginResult{}, ErrInvalidCredentials
	}

	now := s.now()
	if u.Blocked(now) {
		return LoginResult{}, ErrBlocked
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.registerFailure(ctx, u, now)
		return LoginResult{}, ErrInvalidCredentials
	}

	// Sucesso zera o contador e desbloqueia.
	if u.FailedLogins > 0 || u.BlockedUntil != nil {
		u.FailedLogins = 0
		u.BlockedUntil = nil
		u.UpdatedAt = now
		if err := s.repo.Update(ctx, u); err != nil {
			return LoginResult{}, err
		}
	}

	res := LoginResult{User: u}
	if s.twoFA != nil {
		enabled, err := s.twoFA.Enabled(ctx, u.ID)
		if err == nil && enabled {
			res.TwoFactorRequired = true
		}
	}
	return res, nil
}

func (s *Service) registerFailure(ctx context.Context, u User, now time.Time) {
	u.FailedLogins++
	u.UpdatedAt = now
	if u.FailedLogins >= maxFailedLogins {
		until := now.Add(blockDuration)
		u.BlockedUntil = &until
		u.FailedLogins = 0
	}
	if err := s.repo.Update(ctx, u); err != nil {
		s.log.Warn("falha ao registrar tentativa de login", map[string]any{"user_id": u.ID, "err": err.Error()})
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, ErrNotFound
	}
	return u, nil
}

// CheckPassword valida a senha atual do usuário (usado pelo disable do 2FA).
func (s *Service) CheckPassword(ctx context.Context, userID, password string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// RequestPasswordReset gera um token efêmero e envia por e-mail. Para não
// vazar quais e-mails existem, e-mail desconhecido não é erro.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrInvalidInput
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil
	}

	token := uuid.NewString()
	if err := s.codes.Set(ctx, "pwdreset:"+token, u.ID, resetTokenTTL); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Olá %s,\n\nRecebemos um pedido de redefinição de senha.\nUse o código abaixo (válido por 30 minutos):\n\n%s\n\nSe não foi você, ignore este e-mail.\n\nEquipe Harmony Pets",
		u.Name, token,
	)
	if err := s.mailer.Send(ctx, u.Email, "Redefinição de Senha - Harmony Pets", body); err != nil {
		s.log.Warn("falha ao enviar e-mail de reset", map[string]any{"user_id": u.ID, "err": err.Error()})
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrInvalidInput
	}

	userID, err := s.codes.Get(ctx, "pwdreset:"+token)
	if err != nil {
		return ErrInvalidResetToken
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u.PasswordHash = string(hash)
	u.FailedLogins = 0
	u.BlockedUntil = nil
	u.UpdatedAt = now

	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	_ = s.codes.Del(ctx, "pwdreset:"+token)
	return nil
}

// Anonymize apaga os dados pessoais e desativa a conta, mantendo o registro
// (vínculos com pets adotados permanecem). Política de remoção da LGPD.
func (s *Service) Anonymize(ctx context.Context, userID string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return ErrNotFound
	}

	now := s.now()
	u.Name = "Usuário Anonimizado"
	u.Email = fmt.Sprintf("anon_%s@anon.invalid", u.ID)
	u.PasswordHash = ""
	u.Active = false
	u.FailedLogins = 0
	u.BlockedUntil = nil
	u.UpdatedAt = now

	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	if s.scrubber != nil {
		if err := s.scrubber.Scrub(ctx, userID); err != nil {
			s.log.Warn("falha ao anonimizar perfil", map[string]any{"user_id": userID, "err": err.Error()})
		}
	}
	return nil
}
