package middleware

import (
	"net/http"
	"time"
)

// TwoFactorWindow é o prazo de validade de uma verificação de segunda etapa.
const TwoFactorWindow = 4 * time.Hour

// TwoFactorGate barra tokens pendentes e verificações vencidas. O estado
// viaja nas claims, então o gate só compara valores, sem consultar nada.
//
// Não deve envolver as rotas /2fa: o token pendente existe justamente para
// completar a verificação lá.
func TwoFactorGate(window time.Duration, now func() time.Time) func(http.Handler) http.Handler {
	if window <= 0 {
		window = TwoFactorWindow
	}
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				// Sem autenticação o gate não opina; cada handler exige a sua.
				next.ServeHTTP(w, r)
				return
			}

			if claims.TwoFactorPending {
				http.Error(w, "two-factor verification required", http.StatusUnauthorized)
				return
			}

			// Com "exigir em todo login" a verificação vale pela vida do
			// token: o login seguinte já nasce pendente de qualquer forma.
			if !claims.TwoFactorEveryLogin &&
				claims.TwoFactorVerifiedAt != nil && now().Sub(*claims.TwoFactorVerifiedAt) > window {
				http.Error(w, "two-factor verification expired", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
