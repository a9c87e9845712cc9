package memory

import (
	"context"
	"sync"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/terms"
)

type TermsRepo struct {
	mu     sync.RWMutex
	byUser map[string]terms.Acceptance
}

func NewTermsRepo() *TermsRepo {
	return &TermsRepo{byUser: make(map[string]terms.Acceptance)}
}

func (r *TermsRepo) GetByUserID(_ context.Context, userID string) (terms.Acceptance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byUser[userID]
	if !ok {
		return terms.Acceptance{}, ErrNotFound
	}
	return a, nil
}

func (r *TermsRepo) Upsert(_ context.Context, a terms.Acceptance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[a.UserID] = a
	return nil
}
