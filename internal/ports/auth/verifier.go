package auth

import "context"

// Verifier valida um token e devolve as claims, ou erro.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Issuer emite tokens a partir de claims.
type Issuer interface {
	Issue(ctx context.Context, claims Claims) (string, error)
}
