package adoptions

import "time"

// RejectionReservedMessage é a resposta padrão gravada nas solicitações
// irmãs quando o pet é reservado para outro interessado.
const RejectionReservedMessage = "Pet já foi reservado para outro interessado."

// Request acompanha a tentativa de um interessado adotar um pet até um
// desfecho terminal. Depois de completed/rejected/cancelled o registro é
// imutável.
type Request struct {
	ID        string
	PetID     string
	AdopterID string

	// Questionário preenchido na solicitação.
	Motive     string
	Experience string
	Housing    string

	Status Status

	RequestedAt time.Time
	RespondedAt *time.Time
	Response    string // resposta do local de adoção

	InterviewAt       *time.Time
	InterviewLocation string
	InterviewNotes    string

	PickupAt    *time.Time
	PickupNotes string

	TermAccepted   bool
	TermAcceptedAt *time.Time

	CancellationReason string
	CancelledAt        *time.Time

	UpdatedAt time.Time
}

// Stats agrega contagens por status para os painéis do local de adoção.
type Stats struct {
	Total             int `json:"total"`
	Pending           int `json:"pending"`
	InInterview       int `json:"in_interview"`
	InterviewApproved int `json:"interview_approved"`
	Scheduled         int `json:"scheduled"`
	Completed         int `json:"completed"`
	Rejected          int `json:"rejected"` // inclui interview_rejected
	Cancelled         int `json:"cancelled"`
}
