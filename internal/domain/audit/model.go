package audit

import "time"

// Entry é um registro de auditoria de uma requisição atendida.
type Entry struct {
	ID string

	ActorID    string // vazio em rotas públicas
	ActorEmail string

	Method     string
	Path       string
	RouteName  string
	StatusCode int

	IP        string
	UserAgent string

	Params  string // query string, sem corpo
	Message string

	DurationMS int64

	CreatedAt time.Time
}

// Filter restringe a listagem do painel administrativo.
type Filter struct {
	ActorID    string
	Method     string
	PathPrefix string
	StatusCode int
	Since      *time.Time

	Limit  int
	Offset int
}
