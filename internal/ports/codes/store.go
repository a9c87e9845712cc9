// Package codes define o armazenamento de códigos efêmeros (segunda etapa
// por e-mail, tokens de redefinição de senha).
package codes

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("code not found")

// Store guarda valores com expiração. Get de chave expirada retorna
// ErrNotFound.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}
