package audit

import "context"

// Repository persiste os registros de auditoria.
type Repository interface {
	Insert(ctx context.Context, e Entry) error

	// List devolve os registros mais recentes primeiro.
	List(ctx context.Context, f Filter) ([]Entry, error)
}
