package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/adoptions"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/pets"
)

// AdoptionsRepo guarda solicitações em memória. As operações compostas
// mexem no PetRepo sob o próprio lock, espelhando a transação do adapter de
// Postgres.
type AdoptionsRepo struct {
	mu   sync.RWMutex
	byID map[string]adoptions.Request

	pets *PetRepo
}

func NewAdoptionsRepo(petRepo *PetRepo) *AdoptionsRepo {
	return &AdoptionsRepo{
		byID: make(map[string]adoptions.Request),
		pets: petRepo,
	}
}

func (r *AdoptionsRepo) Create(_ context.Context, req adoptions.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[req.ID] = req
	return nil
}

func (r *AdoptionsRepo) Update(_ context.Context, req adoptions.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[req.ID]; !exists {
		return ErrNotFound
	}
	r.byID[req.ID] = req
	return nil
}

func (r *AdoptionsRepo) GetByID(_ context.Context, id string) (adoptions.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return adoptions.Request{}, ErrNotFound
	}
	return req, nil
}

func (r *AdoptionsRepo) HasActive(_ context.Context, petID, adopterID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.byID {
		if req.PetID == petID && req.AdopterID == adopterID && !req.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

func (r *AdoptionsRepo) ListByAdopter(_ context.Context, adopterID string) ([]adoptions.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.Request, 0)
	for _, req := range r.byID {
		if req.AdopterID == adopterID {
			out = append(out, req)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *AdoptionsRepo) ListByOrganization(ctx context.Context, organizationID string, status adoptions.Status) ([]adoptions.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.Request, 0)
	for _, req := range r.byID {
		p, err := r.pets.GetByID(ctx, req.PetID)
		if err != nil || p.OrganizationID != organizationID {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, req)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *AdoptionsRepo) ListByPet(_ context.Context, petID string) ([]adoptions.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.Request, 0)
	for _, req := range r.byID {
		if req.PetID == petID {
			out = append(out, req)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *AdoptionsRepo) StatsByOrganization(ctx context.Context, organizationID string) (adoptions.Stats, error) {
	items, err := r.ListByOrganization(ctx, organizationID, "")
	if err != nil {
		return adoptions.Stats{}, err
	}
	return countStats(items), nil
}

func (r *AdoptionsRepo) StatsByPet(ctx context.Context, petID string) (adoptions.Stats, error) {
	items, err := r.ListByPet(ctx, petID)
	if err != nil {
		return adoptions.Stats{}, err
	}
	return countStats(items), nil
}

func (r *AdoptionsRepo) Reserve(ctx context.Context, req adoptions.Request, rejectionResponse string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.pets.GetByID(ctx, req.PetID)
	if err != nil {
		return err
	}

	r.byID[req.ID] = req

	adopterID := req.AdopterID
	p.Status = pets.StatusReserved
	p.AdoptedByID = &adopterID
	p.UpdatedAt = at
	if err := r.pets.Update(ctx, p); err != nil {
		return err
	}

	for id, sib := range r.byID {
		if id == req.ID || sib.PetID != req.PetID {
			continue
		}
		if sib.Status != adoptions.StatusPending && sib.Status != adoptions.StatusInInterview {
			continue
		}
		respondedAt := at
		sib.Status = adoptions.StatusRejected
		sib.Response = rejectionResponse
		sib.RespondedAt = &respondedAt
		sib.UpdatedAt = at
		r.byID[id] = sib
	}
	return nil
}

func (r *AdoptionsRepo) Release(ctx context.Context, req adoptions.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[req.ID] = req

	p, err := r.pets.GetByID(ctx, req.PetID)
	if err != nil {
		return err
	}
	if p.Status == pets.StatusReserved && p.AdoptedByID != nil && *p.AdoptedByID == req.AdopterID {
		p.Status = pets.StatusAvailable
		p.AdoptedByID = nil
		p.UpdatedAt = req.UpdatedAt
		return r.pets.Update(ctx, p)
	}
	return nil
}

func (r *AdoptionsRepo) Complete(ctx context.Context, req adoptions.Request, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[req.ID] = req

	p, err := r.pets.GetByID(ctx, req.PetID)
	if err != nil {
		return err
	}
	adopterID := req.AdopterID
	adoptedAt := at
	p.Status = pets.StatusAdopted
	p.AdoptedByID = &adopterID
	p.AdoptedAt = &adoptedAt
	p.UpdatedAt = at
	return r.pets.Update(ctx, p)
}

func sortNewestFirst(items []adoptions.Request) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].RequestedAt.After(items[j].RequestedAt)
	})
}

func countStats(items []adoptions.Request) adoptions.Stats {
	var st adoptions.Stats
	st.Total = len(items)
	for _, req := range items {
		switch req.Status {
		case adoptions.StatusPending:
			st.Pending++
		case adoptions.StatusInInterview:
			st.InInterview++
		case adoptions.StatusInterviewApproved:
			st.InterviewApproved++
		case adoptions.StatusScheduled:
			st.Scheduled++
		case adoptions.StatusCompleted:
			st.Completed++
		case adoptions.StatusRejected, adoptions.StatusInterviewRejected:
			st.Rejected++
		case adoptions.StatusCancelled:
			st.Cancelled++
		}
	}
	return st
}
