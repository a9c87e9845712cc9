package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/audit"
)

type AuditRepo struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

func NewAuditRepo() *AuditRepo {
	return &AuditRepo{}
}

func (r *AuditRepo) Insert(_ context.Context, e audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *AuditRepo) List(_ context.Context, f audit.Filter) ([]audit.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Mais recentes primeiro: percorre do fim para o começo.
	out := make([]audit.Entry, 0)
	skipped := 0
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if f.ActorID != "" && e.ActorID != f.ActorID {
			continue
		}
		if f.Method != "" && e.Method != f.Method {
			continue
		}
		if f.PathPrefix != "" && !strings.HasPrefix(e.Path, f.PathPrefix) {
			continue
		}
		if f.StatusCode != 0 && e.StatusCode != f.StatusCode {
			continue
		}
		if f.Since != nil && e.CreatedAt.Before(*f.Since) {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}
