package profiles

import "context"

type Repository interface {
	CreateAdopter(ctx context.Context, a Adopter) error
	UpdateAdopter(ctx context.Context, a Adopter) error
	GetAdopterByUserID(ctx context.Context, userID string) (Adopter, error)
	GetAdopterByID(ctx context.Context, id string) (Adopter, error)
	GetAdopterByCPF(ctx context.Context, cpf string) (Adopter, error)

	CreateOrganization(ctx context.Context, o Organization) error
	UpdateOrganization(ctx context.Context, o Organization) error
	GetOrganizationByUserID(ctx context.Context, userID string) (Organization, error)
	GetOrganizationByID(ctx context.Context, id string) (Organization, error)
	GetOrganizationByCNPJ(ctx context.Context, cnpj string) (Organization, error)
}
