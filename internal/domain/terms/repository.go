package terms

import "context"

// Repository persiste o aceite de termos, um registro por usuário.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Acceptance, error)
	Upsert(ctx context.Context, a Acceptance) error
}
