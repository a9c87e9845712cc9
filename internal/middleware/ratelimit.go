package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiter mantém um rate.Limiter por IP, descartando entradas paradas.
type ipLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter

	limit rate.Limit
	burst int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const limiterIdleTTL = 10 * time.Minute

// RateLimit limita requisições por IP de origem. Usado nas rotas de login
// para frear força bruta de credenciais.
func RateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	l := &ipLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   limit,
		burst:   burst,
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r)) {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now

	// Limpeza oportunista, sem goroutine dedicada.
	if len(l.clients) > 1024 {
		for k, v := range l.clients {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
	}

	return c.limiter.Allow()
}
