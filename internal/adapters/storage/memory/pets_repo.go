package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/pets"
)

var ErrNotFound = errors.New("not found")

// PetRepo implementa pets.Repository em memória, para dev e testes.
type PetRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() *PetRepo {
	return &PetRepo{byID: make(map[string]pets.Pet)}
}

func (r *PetRepo) Create(_ context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *PetRepo) Update(_ context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateLocked(p)
}

func (r *PetRepo) updateLocked(p pets.Pet) error {
	if _, exists := r.byID[p.ID]; !exists {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *PetRepo) GetByID(_ context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *PetRepo) List(_ context.Context, f pets.Filter) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if !f.IncludeArchived && p.Lifecycle == pets.LifecycleArchived {
			continue
		}
		if f.Species != "" && p.Species != f.Species {
			continue
		}
		if f.Size != "" && p.Size != f.Size {
			continue
		}
		if f.Sex != "" && p.Sex != f.Sex {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.OrganizationID != "" && p.OrganizationID != f.OrganizationID {
			continue
		}
		out = append(out, p)
	}

	// Ordem estável por created_at asc (consistência em dev).
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []pets.Pet{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *PetRepo) ListAdoptedBy(_ context.Context, adopterID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.Status == pets.StatusAdopted && p.AdoptedByID != nil && *p.AdoptedByID == adopterID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
