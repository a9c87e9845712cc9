package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AuditEntry é o registro bruto de uma requisição atendida. O router adapta
// para o tipo do domínio de auditoria; o pacote fica sem dependência dele.
type AuditEntry struct {
	ActorID    string
	ActorEmail string

	Method     string
	Path       string
	RouteName  string
	StatusCode int

	IP        string
	UserAgent string
	Params    string

	DurationMS int64
}

// Audit grava um registro por requisição, depois da resposta. Corpo nunca é
// capturado, só método, rota, query e resultado.
func Audit(record func(ctx context.Context, e AuditEntry)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			e := AuditEntry{
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: ww.Status(),
				IP:         clientIP(r),
				UserAgent:  r.UserAgent(),
				Params:     r.URL.RawQuery,
				DurationMS: time.Since(start).Milliseconds(),
			}
			if rc := chi.RouteContext(r.Context()); rc != nil {
				e.RouteName = rc.RoutePattern()
			}
			if claims, ok := GetClaims(r.Context()); ok {
				e.ActorID = claims.UserID
				e.ActorEmail = claims.Email
			}

			// Contexto próprio: a gravação não pode herdar um cancelamento
			// da requisição já encerrada.
			record(context.WithoutCancel(r.Context()), e)
		})
	}
}

func clientIP(r *http.Request) string {
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
