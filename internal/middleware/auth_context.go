package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/auth"
)

type ctxKey int

const claimsKey ctxKey = iota

// AuthContext extrai o bearer token, valida e coloca as claims no contexto.
// Requisição sem header passa adiante sem claims (rotas públicas usam o
// mesmo pipeline); token inválido é 401 na hora.
//
// allowDebug liga os cabeçalhos X-Debug-User-ID/X-Debug-Role no lugar de
// token. Desligado por padrão: identidade forjada por cabeçalho nunca pode
// depender de variável de ambiente ausente.
func AuthContext(verifier auth.Verifier, allowDebug bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowDebug {
				if devClaims, ok := debugClaims(r); ok {
					next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), devClaims)))
					return
				}
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				http.Error(w, "malformed authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(r.Context(), strings.TrimSpace(raw))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// debugClaims monta claims a partir de X-Debug-User-ID, para testar rotas
// autenticadas sem emitir token. Só é consultado com o opt-in explícito do
// AuthContext; em produção nunca vale, mesmo com o opt-in ligado.
func debugClaims(r *http.Request) (auth.Claims, bool) {
	if os.Getenv("APP_ENV") == "production" {
		return auth.Claims{}, false
	}
	id := r.Header.Get("X-Debug-User-ID")
	if id == "" {
		return auth.Claims{}, false
	}
	return auth.Claims{
		UserID: id,
		Role:   auth.Role(r.Header.Get("X-Debug-Role")),
	}, true
}

func withClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// GetClaims devolve as claims da requisição, se autenticada.
func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}
