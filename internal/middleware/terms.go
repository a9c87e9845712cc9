package middleware

import (
	"context"
	"net/http"
)

// TermsChecker reporta se o usuário tem consentimento completo e vigente.
// Implementado por terms.Service.
type TermsChecker interface {
	Accepted(ctx context.Context, userID string) (bool, error)
}

// TermsGate exige o aceite dos termos nas rotas que envolve. Rotas sem
// autenticação passam; as de termos ficam fora do gate para o usuário
// conseguir aceitar.
func TermsGate(checker TermsChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || claims.UserID == "" {
				next.ServeHTTP(w, r)
				return
			}

			accepted, err := checker.Accepted(r.Context(), claims.UserID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !accepted {
				http.Error(w, "terms acceptance required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
