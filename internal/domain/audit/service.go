package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/logger"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Record grava um registro. Erro de persistência não derruba a requisição
// auditada: vira log.
func (s *Service) Record(ctx context.Context, e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		s.log.Error("falha ao gravar auditoria", map[string]any{"path": e.Path, "err": err.Error()})
	}
}

// List alimenta o painel administrativo, mais recentes primeiro.
func (s *Service) List(ctx context.Context, f Filter) ([]Entry, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Method = strings.ToUpper(strings.TrimSpace(f.Method))
	return s.repo.List(ctx, f)
}
