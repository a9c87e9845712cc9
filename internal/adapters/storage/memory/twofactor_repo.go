package memory

import (
	"context"
	"sync"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/twofactor"
)

type TwoFactorRepo struct {
	mu     sync.RWMutex
	byUser map[string]twofactor.Settings
}

func NewTwoFactorRepo() *TwoFactorRepo {
	return &TwoFactorRepo{byUser: make(map[string]twofactor.Settings)}
}

func (r *TwoFactorRepo) Get(_ context.Context, userID string) (twofactor.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byUser[userID]
	if !ok {
		return twofactor.Settings{}, ErrNotFound
	}
	return s, nil
}

func (r *TwoFactorRepo) Upsert(_ context.Context, s twofactor.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[s.UserID] = s
	return nil
}

func (r *TwoFactorRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
	return nil
}
