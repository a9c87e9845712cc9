package codes

import (
	"context"
	"sync"
	"time"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/codes"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// memoryStore guarda os códigos em memória; expiração é checada na leitura,
// sem goroutine de limpeza (volume baixo, processo único em dev).
type memoryStore struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewMemory() codes.Store {
	return &memoryStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return "", codes.ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.data, key)
		return "", codes.ErrNotFound
	}
	return e.value, nil
}

func (s *memoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
