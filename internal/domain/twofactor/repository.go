package twofactor

import "context"

// Repository persiste a configuração de segunda etapa, uma por usuário.
type Repository interface {
	Get(ctx context.Context, userID string) (Settings, error)
	Upsert(ctx context.Context, s Settings) error
	Delete(ctx context.Context, userID string) error
}
