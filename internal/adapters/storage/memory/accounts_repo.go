package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/accounts"
)

type AccountsRepo struct {
	mu      sync.RWMutex
	byID    map[string]accounts.User
	byEmail map[string]string // email -> id
}

func NewAccountsRepo() *AccountsRepo {
	return &AccountsRepo{
		byID:    make(map[string]accounts.User),
		byEmail: make(map[string]string),
	}
}

func (r *AccountsRepo) Create(_ context.Context, u accounts.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[strings.ToLower(u.Email)]; exists {
		return accounts.ErrDuplicateEmail
	}
	r.byID[u.ID] = u
	r.byEmail[strings.ToLower(u.Email)] = u.ID
	return nil
}

func (r *AccountsRepo) Update(_ context.Context, u accounts.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, exists := r.byID[u.ID]
	if !exists {
		return ErrNotFound
	}
	if old.Email != u.Email {
		delete(r.byEmail, strings.ToLower(old.Email))
		r.byEmail[strings.ToLower(u.Email)] = u.ID
	}
	r.byID[u.ID] = u
	return nil
}

func (r *AccountsRepo) GetByID(_ context.Context, id string) (accounts.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return accounts.User{}, ErrNotFound
	}
	return u, nil
}

func (r *AccountsRepo) GetByEmail(_ context.Context, email string) (accounts.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return accounts.User{}, ErrNotFound
	}
	return r.byID[id], nil
}
