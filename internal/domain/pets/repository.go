package pets

import "context"

// Filter restringe List. Campos zero não filtram. Por padrão só pets ativos
// entram no resultado.
type Filter struct {
	Species Species
	Size    Size
	Sex     Sex
	Status  Status

	OrganizationID  string
	IncludeArchived bool

	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context, f Filter) ([]Pet, error)
	ListAdoptedBy(ctx context.Context, adopterID string) ([]Pet, error)
}
