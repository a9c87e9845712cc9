package terms

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("terms acceptance not found")
	ErrIncomplete   = errors.New("both terms of use and lgpd consent are required")
)

// Anonymizer apaga os dados pessoais da conta após a revogação do
// consentimento. Implementado por accounts.Service.
type Anonymizer interface {
	Anonymize(ctx context.Context, userID string) error
}

type Service struct {
	repo Repository
	anon Anonymizer
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, anon Anonymizer, log logger.Logger) *Service {
	return &Service{
		repo: repo,
		anon: anon,
		log:  log,
		now:  time.Now,
	}
}

type AcceptInput struct {
	TermsOfUse bool
	LGPD       bool
	Version    string
	IP         string
	UserAgent  string
}

// Accept registra o aceite. Os dois documentos precisam ser aceitos juntos;
// aceite parcial não vale como consentimento.
func (s *Service) Accept(ctx context.Context, userID string, in AcceptInput) (Acceptance, error) {
	if strings.TrimSpace(userID) == "" {
		return Acceptance{}, ErrInvalidInput
	}
	if !in.TermsOfUse || !in.LGPD {
		return Acceptance{}, ErrIncomplete
	}

	version := strings.TrimSpace(in.Version)
	if version == "" {
		version = DefaultVersion
	}

	now := s.now()
	a, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		a = Acceptance{ID: uuid.NewString(), UserID: userID}
	}

	a.TermsOfUse = true
	a.LGPD = true
	a.Version = version
	a.IP = strings.TrimSpace(in.IP)
	a.UserAgent = strings.TrimSpace(in.UserAgent)
	a.AcceptedAt = now
	a.Revoked = false
	a.RevokedAt = nil
	a.UpdatedAt = now

	if err := s.repo.Upsert(ctx, a); err != nil {
		return Acceptance{}, err
	}
	return a, nil
}

// Status devolve o aceite vigente do usuário.
func (s *Service) Status(ctx context.Context, userID string) (Acceptance, error) {
	a, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return Acceptance{}, ErrNotFound
	}
	return a, nil
}

// Accepted implementa o gate de termos: consentimento completo e vigente.
func (s *Service) Accepted(ctx context.Context, userID string) (bool, error) {
	a, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return false, nil
	}
	return a.Complete(), nil
}

// Revoke marca o consentimento como revogado e dispara a anonimização da
// conta, conforme a política de exclusão.
func (s *Service) Revoke(ctx context.Context, userID string) (Acceptance, error) {
	a, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return Acceptance{}, ErrNotFound
	}
	if a.Revoked {
		return a, nil
	}

	now := s.now()
	a.Revoked = true
	a.RevokedAt = &now
	a.UpdatedAt = now

	if err := s.repo.Upsert(ctx, a); err != nil {
		return Acceptance{}, err
	}

	if s.anon != nil {
		if err := s.anon.Anonymize(ctx, userID); err != nil {
			s.log.Error("falha ao anonimizar conta após revogação", map[string]any{"user_id": userID, "err": err.Error()})
		}
	}
	return a, nil
}
