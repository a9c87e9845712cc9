package adoptions

import "fmt"

// Status da solicitação de adoção. Conjunto fechado: toda mudança passa pela
// tabela de transições abaixo, inclusive o caminho legado de aprovação
// direta (pending -> scheduled).
type Status string

const (
	StatusPending           Status = "pending"
	StatusInInterview       Status = "in_interview"
	StatusInterviewApproved Status = "interview_approved"
	StatusInterviewRejected Status = "interview_rejected"
	StatusScheduled         Status = "scheduled"
	StatusCompleted         Status = "completed"
	StatusRejected          Status = "rejected"
	StatusCancelled         Status = "cancelled"
)

// transitions: origem -> destinos permitidos.
//
// Notas sobre os caminhos menos óbvios:
//   - pending -> scheduled: aprovação direta (endpoint legado), mesmos
//     efeitos da retirada agendada.
//   - in_interview -> rejected: rejeição forçada quando outro interessado
//     reserva o pet.
//   - interview_approved -> completed: conclusão sem agendamento registrado,
//     comportamento herdado e mantido.
var transitions = map[Status][]Status{
	StatusPending:           {StatusInInterview, StatusScheduled, StatusRejected, StatusCancelled},
	StatusInInterview:       {StatusInterviewApproved, StatusInterviewRejected, StatusRejected, StatusCancelled},
	StatusInterviewApproved: {StatusScheduled, StatusCompleted, StatusCancelled},
	StatusScheduled:         {StatusCompleted, StatusCancelled},
}

// Terminal reporta se o status encerra a solicitação.
func (s Status) Terminal() bool {
	switch s {
	case StatusInterviewRejected, StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Valid reporta se s pertence ao conjunto conhecido.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInInterview, StatusInterviewApproved, StatusInterviewRejected,
		StatusScheduled, StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// CanTransition consulta a tabela.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError relata o status atual e o pretendido.
type InvalidTransitionError struct {
	From      Status
	Attempted Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: current=%s attempted=%s", e.From, e.Attempted)
}

// Is permite errors.Is(err, ErrInvalidTransition).
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// transition valida e aplica a mudança de status.
func transition(r *Request, to Status) error {
	if !CanTransition(r.Status, to) {
		return &InvalidTransitionError{From: r.Status, Attempted: to}
	}
	r.Status = to
	return nil
}
