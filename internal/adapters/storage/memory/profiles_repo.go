package memory

import (
	"context"
	"sync"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/profiles"
)

type ProfilesRepo struct {
	mu            sync.RWMutex
	adopters      map[string]profiles.Adopter      // por id
	organizations map[string]profiles.Organization // por id
}

func NewProfilesRepo() *ProfilesRepo {
	return &ProfilesRepo{
		adopters:      make(map[string]profiles.Adopter),
		organizations: make(map[string]profiles.Organization),
	}
}

func (r *ProfilesRepo) CreateAdopter(_ context.Context, a profiles.Adopter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adopters[a.ID] = a
	return nil
}

func (r *ProfilesRepo) UpdateAdopter(_ context.Context, a profiles.Adopter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adopters[a.ID]; !exists {
		return ErrNotFound
	}
	r.adopters[a.ID] = a
	return nil
}

func (r *ProfilesRepo) GetAdopterByUserID(_ context.Context, userID string) (profiles.Adopter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.adopters {
		if a.UserID == userID {
			return a, nil
		}
	}
	return profiles.Adopter{}, ErrNotFound
}

func (r *ProfilesRepo) GetAdopterByID(_ context.Context, id string) (profiles.Adopter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adopters[id]
	if !ok {
		return profiles.Adopter{}, ErrNotFound
	}
	return a, nil
}

func (r *ProfilesRepo) GetAdopterByCPF(_ context.Context, cpf string) (profiles.Adopter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.adopters {
		if a.CPF != "" && a.CPF == cpf {
			return a, nil
		}
	}
	return profiles.Adopter{}, ErrNotFound
}

func (r *ProfilesRepo) CreateOrganization(_ context.Context, o profiles.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.organizations[o.ID] = o
	return nil
}

func (r *ProfilesRepo) UpdateOrganization(_ context.Context, o profiles.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.organizations[o.ID]; !exists {
		return ErrNotFound
	}
	r.organizations[o.ID] = o
	return nil
}

func (r *ProfilesRepo) GetOrganizationByUserID(_ context.Context, userID string) (profiles.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.organizations {
		if o.UserID == userID {
			return o, nil
		}
	}
	return profiles.Organization{}, ErrNotFound
}

func (r *ProfilesRepo) GetOrganizationByID(_ context.Context, id string) (profiles.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.organizations[id]
	if !ok {
		return profiles.Organization{}, ErrNotFound
	}
	return o, nil
}

func (r *ProfilesRepo) GetOrganizationByCNPJ(_ context.Context, cnpj string) (profiles.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.organizations {
		if o.CNPJ != "" && o.CNPJ == cnpj {
			return o, nil
		}
	}
	return profiles.Organization{}, ErrNotFound
}
