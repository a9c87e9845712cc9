package adoptions

import (
	"context"
	"time"
)

// Repository persiste solicitações. As operações compostas (Reserve, Release,
// Complete) também tocam o pet e as solicitações irmãs; no adapter de
// Postgres cada uma roda numa única transação com lock na linha do pet, para
// que duas aprovações concorrentes não reservem o mesmo animal.
type Repository interface {
	Create(ctx context.Context, r Request) error
	Update(ctx context.Context, r Request) error
	GetByID(ctx context.Context, id string) (Request, error)

	// HasActive reporta se existe solicitação não-terminal do par (pet,
	// interessado).
	HasActive(ctx context.Context, petID, adopterID string) (bool, error)

	ListByAdopter(ctx context.Context, adopterID string) ([]Request, error)
	ListByOrganization(ctx context.Context, organizationID string, status Status) ([]Request, error)
	ListByPet(ctx context.Context, petID string) ([]Request, error)

	StatsByOrganization(ctx context.Context, organizationID string) (Stats, error)
	StatsByPet(ctx context.Context, petID string) (Stats, error)

	// Reserve grava r (já em scheduled), move o pet para reserved com o
	// interessado como adotante previsto e rejeita as irmãs em
	// pending/in_interview com a resposta padrão. Atômico.
	Reserve(ctx context.Context, r Request, rejectionResponse string, at time.Time) error

	// Release grava r (já cancelada) e, se o pet estava reservado para este
	// interessado, devolve-o para available limpando o vínculo. Atômico.
	Release(ctx context.Context, r Request) error

	// Complete grava r (já completed) e move o pet para adopted com a data
	// da adoção. Atômico.
	Complete(ctx context.Context, r Request, at time.Time) error
}
