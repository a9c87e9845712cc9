package adoptions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/pets"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/logger"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/mail"
)

const minCancellationReason = 10

// PetCatalog é a visão do catálogo que o fluxo de adoção precisa.
type PetCatalog interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

// Contact é o destino de uma notificação.
type Contact struct {
	Name  string
	Email string
}

// Directory resolve contatos de interessados e locais de adoção para envio
// de e-mail. Pode ser nil (notificações desligadas).
type Directory interface {
	AdopterContact(ctx context.Context, adopterID string) (Contact, error)
	OrganizationContact(ctx context.Context, organizationID string) (Contact, error)
}

type Service struct {
	repo    Repository
	catalog PetCatalog
	dir     Directory
	mailer  mail.Mailer
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, catalog PetCatalog, dir Directory, mailer mail.Mailer, log logger.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		dir:     dir,
		mailer:  mailer,
		log:     log,
		now:     time.Now,
	}
}

type SubmitInput struct {
	Motive     string
	Experience string
	Housing    string
}

// Submit cria a solicitação em pending. Falha se o pet não está disponível
// ou se o interessado já tem solicitação ativa para ele.
func (s *Service) Submit(ctx context.Context, petID, adopterID string, in SubmitInput) (Request, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(adopterID) == "" {
		return Request{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Motive) == "" || strings.TrimSpace(in.Experience) == "" || strings.TrimSpace(in.Housing) == "" {
		return Request{}, ErrInvalidInput
	}

	pet, err := s.catalog.GetByID(ctx, petID)
	if err != nil {
		return Request{}, ErrNotFound
	}
	if pet.Status != pets.StatusAvailable || pet.Lifecycle != pets.LifecycleActive {
		return Request{}, ErrPetUnavailable
	}

	active, err := s.repo.HasActive(ctx, petID, adopterID)
	if err != nil {
		return Request{}, err
	}
	if active {
		return Request{}, ErrDuplicateRequest
	}

	now := s.now()
	r := Request{
		ID:          uuid.NewString(),
		PetID:       petID,
		AdopterID:   adopterID,
		Motive:      strings.TrimSpace(in.Motive),
		Experience:  strings.TrimSpace(in.Experience),
		Housing:     strings.TrimSpace(in.Housing),
		Status:      StatusPending,
		RequestedAt: now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Request{}, err
	}

	s.notifyOrganization(ctx, pet,
		fmt.Sprintf("Nova Solicitação de Adoção - %s", pet.Name),
		fmt.Sprintf("Há uma nova solicitação de adoção para o pet %s.\nAcesse o painel para gerenciar as solicitações.", pet.Name))

	return r, nil
}

// ScheduleInterview move pending -> in_interview e registra data e local.
func (s *Service) ScheduleInterview(ctx context.Context, requestID, organizationID string, when time.Time, location, notes string) (Request, error) {
	r, pet, err := s.ownedByOrganization(ctx, requestID, organizationID)
	if err != nil {
		return Request{}, err
	}
	if when.IsZero() {
		return Request{}, ErrInvalidInput
	}

	if err := transition(&r, StatusInInterview); err != nil {
		return Request{}, err
	}

	r.InterviewAt = &when
	r.InterviewLocation = strings.TrimSpace(location)
	r.InterviewNotes = strings.TrimSpace(notes)
	r.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, r); err != nil {
		return Request{}, err
	}

	s.notifyAdopter(ctx, r,
		fmt.Sprintf("Entrevista Agendada - Adoção de %s", pet.Name),
		fmt.Sprintf("Sua entrevista para adoção do pet %s foi agendada!\n\nData e Hora: %s\nLocal: %s\n\nCompareça no horário marcado.",
			pet.Name, when.Format("02/01/2006 às 15:04"), location))

	return r, nil
}

// ResolveInterview move in_interview -> interview_approved ou
// interview_rejected.
func (s *Service) ResolveInterview(ctx context.Context, requestID, organizationID string, approved bool, notes string) (Request, error) {
	r, pet, err := s.ownedByOrganization(ctx, requestID, organizationID)
	if err != nil {
		return Request{}, err
	}

	now := s.now()
	notes = strings.TrimSpace(notes)

	if approved {
		if err := transition(&r, StatusInterviewApproved); err != nil {
			return Request{}, err
		}
		r.InterviewNotes = appendResult(r.InterviewNotes, "Resultado: Aprovado", notes)
	} else {
		if err := transition(&r, StatusInterviewRejected); err != nil {
			return Request{}, err
		}
		r.InterviewNotes = appendResult(r.InterviewNotes, "Resultado: Rejeitado", notes)
		r.Response = notes
	}
	r.RespondedAt = &now
	r.UpdatedAt = now

	if err := s.repo.Update(ctx, r); err != nil {
		return Request{}, err
	}

	if approved {
		s.notifyAdopter(ctx, r,
			fmt.Sprintf("Parabéns! Entrevista Aprovada - %s", pet.Name),
			fmt.Sprintf("Você foi aprovado na entrevista para adoção do %s! Aguarde o agendamento da retirada.", pet.Name))
	} else {
		s.notifyAdopter(ctx, r,
			fmt.Sprintf("Resultado da Entrevista - %s", pet.Name),
			fmt.Sprintf("Agradecemos seu interesse em adotar o %s.\nApós análise, não foi possível aprovar sua solicitação neste momento.", pet.Name))
	}

	return r, nil
}

// SchedulePickup move interview_approved -> scheduled, reserva o pet e
// rejeita as solicitações irmãs ainda abertas. A reserva e as rejeições são
// uma única operação atômica no repositório.
func (s *Service) SchedulePickup(ctx context.Context, requestID, organizationID string, when time.Time, notes string) (Request, error) {
	r, pet, err := s.ownedByOrganization(ctx, requestID, organizationID)
	if err != nil {
		return Request{}, err
	}
	if when.IsZero() {
		return Request{}, ErrInvalidInput
	}
	if r.Status != StatusInterviewApproved {
		return Request{}, &InvalidTransitionError{From: r.Status, Attempted: StatusScheduled}
	}

	now := s.now()
	r.Status = StatusScheduled
	r.PickupAt = &when
	r.PickupNotes = strings.TrimSpace(notes)
	r.UpdatedAt = now

	if err := s.repo.Reserve(ctx, r, RejectionReservedMessage, now); err != nil {
		return Request{}, err
	}

	s.notifyAdopter(ctx, r,
		fmt.Sprintf("Retirada Agendada! Seu novo pet %s te espera!", pet.Name),
		fmt.Sprintf("A retirada do %s foi agendada!\n\nData e Hora: %s", pet.Name, when.Format("02/01/2006 às 15:04")))

	return r, nil
}

// Respond é o caminho legado de aprovação direta, mapeado na tabela
// canônica: aprovar equivale a agendar a retirada sem entrevista.
func (s *Service) Respond(ctx context.Context, requestID, organizationID string, approve bool, response string) (Request, error) {
	r, pet, err := s.ownedByOrganization(ctx, requestID, organizationID)
	if err != nil {
		return Request{}, err
	}

	// Resposta direta só vale antes do fluxo de entrevista começar. A tabela
	// sozinha não basta: in_interview -> rejected existe para a rejeição
	// forçada por reserva, não para este endpoint.
	if r.Status != StatusPending {
		attempted := StatusRejected
		if approve {
			attempted = StatusScheduled
		}
		return Request{}, &InvalidTransitionError{From: r.Status, Attempted: attempted}
	}

	now := s.now()
	response = strings.TrimSpace(response)

	if approve {
		if err := transition(&r, StatusScheduled); err != nil {
			return Request{}, err
		}
		r.Response = response
		r.RespondedAt = &now
		r.UpdatedAt = now

		if err := s.repo.Reserve(ctx, r, RejectionReservedMessage, now); err != nil {
			return Request{}, err
		}

		s.notifyAdopter(ctx, r,
			fmt.Sprintf("Solicitação Aprovada - %s", pet.Name),
			fmt.Sprintf("Sua solicitação de adoção do %s foi aprovada! O pet está reservado para você.", pet.Name))
		return r, nil
	}

	if err := transition(&r, StatusRejected); err != nil {
		return Request{}, err
	}
	r.Response = response
	r.RespondedAt = &now
	r.UpdatedAt = now

	if err := s.repo.Update(ctx, r); err != nil {
		return Request{}, err
	}

	s.notifyAdopter(ctx, r,
		fmt.Sprintf("Resultado da Solicitação - %s", pet.Name),
		fmt.Sprintf("Agradecemos seu interesse em adotar o %s.\nSua solicitação não foi aprovada.", pet.Name))

	return r, nil
}

// AcceptTerm registra o aceite do termo de responsabilidade pelo
// interessado. Válido com entrevista em andamento, aprovada ou retirada
// agendada.
func (s *Service) AcceptTerm(ctx context.Context, requestID, adopterID string) (Request, error) {
	r, err := s.ownedByAdopter(ctx, requestID, adopterID)
	if err != nil {
		return Request{}, err
	}

	switch r.Status {
	case StatusScheduled, StatusInInterview, StatusInterviewApproved:
	default:
		return Request{}, fmt.Errorf("%w: term acceptance not allowed from %s", ErrInvalidTransition, r.Status)
	}

	now := s.now()
	r.TermAccepted = true
	r.TermAcceptedAt = &now
	r.UpdatedAt = now

	if err := s.repo.Update(ctx, r); err != nil {
		return Request{}, err
	}

	if pet, err := s.catalog.GetByID(ctx, r.PetID); err == nil {
		s.notifyOrganization(ctx, pet,
			fmt.Sprintf("Termo Aceito - %s", pet.Name),
			fmt.Sprintf("O interessado aceitou o Termo de Responsabilidade para adoção do %s.", pet.Name))
	}

	return r, nil
}

// Cancel encerra a solicitação por iniciativa do interessado. Exige
// justificativa com ao menos 10 caracteres e devolve o pet para available
// quando esta solicitação segurava a reserva.
func (s *Service) Cancel(ctx context.Context, requestID, adopterID, reason string) (Request, error) {
	r, err := s.ownedByAdopter(ctx, requestID, adopterID)
	if err != nil {
		return Request{}, err
	}

	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) < minCancellationReason {
		return Request{}, fmt.Errorf("%w: cancellation reason must have at least %d characters", ErrInvalidInput, minCancellationReason)
	}

	if err := transition(&r, StatusCancelled); err != nil {
		return Request{}, err
	}

	now := s.now()
	r.CancellationReason = reason
	r.CancelledAt = &now
	r.UpdatedAt = now

	if err := s.repo.Release(ctx, r); err != nil {
		return Request{}, err
	}

	if pet, err := s.catalog.GetByID(ctx, r.PetID); err == nil {
		s.notifyOrganization(ctx, pet,
			fmt.Sprintf("Solicitação Cancelada - %s", pet.Name),
			fmt.Sprintf("O interessado cancelou a solicitação de adoção do %s.\nJustificativa: %s", pet.Name, reason))
	}

	return r, nil
}

// ConfirmCompletion conclui a adoção. Exige termo aceito; chamada repetida
// sobre solicitação concluída devolve ErrAlreadyCompleted sem efeitos.
func (s *Service) ConfirmCompletion(ctx context.Context, requestID, organizationID string) (Request, error) {
	r, pet, err := s.ownedByOrganization(ctx, requestID, organizationID)
	if err != nil {
		return Request{}, err
	}

	if r.Status == StatusCompleted {
		return r, ErrAlreadyCompleted
	}
	if !CanTransition(r.Status, StatusCompleted) {
		return Request{}, &InvalidTransitionError{From: r.Status, Attempted: StatusCompleted}
	}
	if !r.TermAccepted {
		return Request{}, ErrTermNotAccepted
	}

	now := s.now()
	r.Status = StatusCompleted
	r.UpdatedAt = now

	if err := s.repo.Complete(ctx, r, now); err != nil {
		return Request{}, err
	}

	s.notifyAdopter(ctx, r,
		fmt.Sprintf("Parabéns! Adoção Concluída - %s", pet.Name),
		fmt.Sprintf("A adoção do %s foi concluída com sucesso! Desejamos muita felicidade!", pet.Name))

	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Request{}, ErrNotFound
	}
	return r, nil
}

func (s *Service) ListByAdopter(ctx context.Context, adopterID string) ([]Request, error) {
	if strings.TrimSpace(adopterID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByAdopter(ctx, adopterID)
}

// ListByOrganization lista as solicitações recebidas, opcionalmente
// filtradas por status.
func (s *Service) ListByOrganization(ctx context.Context, organizationID string, status Status) ([]Request, error) {
	if strings.TrimSpace(organizationID) == "" {
		return nil, ErrInvalidInput
	}
	if status != "" && !status.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOrganization(ctx, organizationID, status)
}

func (s *Service) OrganizationStats(ctx context.Context, organizationID string) (Stats, error) {
	if strings.TrimSpace(organizationID) == "" {
		return Stats{}, ErrInvalidInput
	}
	return s.repo.StatsByOrganization(ctx, organizationID)
}

// PetHistory devolve todas as solicitações de um pet do local, com
// estatísticas.
func (s *Service) PetHistory(ctx context.Context, petID, organizationID string) ([]Request, Stats, error) {
	pet, err := s.catalog.GetByID(ctx, petID)
	if err != nil {
		return nil, Stats{}, ErrNotFound
	}
	if pet.OrganizationID != organizationID {
		return nil, Stats{}, ErrForbidden
	}

	items, err := s.repo.ListByPet(ctx, petID)
	if err != nil {
		return nil, Stats{}, err
	}
	stats, err := s.repo.StatsByPet(ctx, petID)
	if err != nil {
		return nil, Stats{}, err
	}
	return items, stats, nil
}

// -------------------------
// Helpers
// -------------------------

func (s *Service) ownedByOrganization(ctx context.Context, requestID, organizationID string) (Request, pets.Pet, error) {
	if strings.TrimSpace(requestID) == "" || strings.TrimSpace(organizationID) == "" {
		return Request{}, pets.Pet{}, ErrInvalidInput
	}

	r, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return Request{}, pets.Pet{}, ErrNotFound
	}

	pet, err := s.catalog.GetByID(ctx, r.PetID)
	if err != nil {
		return Request{}, pets.Pet{}, ErrNotFound
	}
	if pet.OrganizationID != organizationID {
		return Request{}, pets.Pet{}, ErrForbidden
	}
	return r, pet, nil
}

func (s *Service) ownedByAdopter(ctx context.Context, requestID, adopterID string) (Request, error) {
	if strings.TrimSpace(requestID) == "" || strings.TrimSpace(adopterID) == "" {
		return Request{}, ErrInvalidInput
	}

	r, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return Request{}, ErrNotFound
	}
	if r.AdopterID != adopterID {
		return Request{}, ErrForbidden
	}
	return r, nil
}

// notifyAdopter envia e-mail ao interessado da solicitação; falha só gera
// log.
func (s *Service) notifyAdopter(ctx context.Context, r Request, subject, body string) {
	if s.dir == nil {
		return
	}
	c, err := s.dir.AdopterContact(ctx, r.AdopterID)
	if err != nil || c.Email == "" {
		return
	}
	s.send(ctx, c, subject, body)
}

func (s *Service) notifyOrganization(ctx context.Context, pet pets.Pet, subject, body string) {
	if s.dir == nil {
		return
	}
	c, err := s.dir.OrganizationContact(ctx, pet.OrganizationID)
	if err != nil || c.Email == "" {
		return
	}
	s.send(ctx, c, subject, body)
}

func (s *Service) send(ctx context.Context, c Contact, subject, body string) {
	full := fmt.Sprintf("Olá %s,\n\n%s\n\nAtenciosamente,\nEquipe Harmony Pets", c.Name, body)
	if err := s.mailer.Send(ctx, c.Email, subject, full); err != nil {
		s.log.Warn("falha ao enviar notificação", map[string]any{"to": c.Email, "subject": subject, "err": err.Error()})
	}
}

func appendResult(notes string, parts ...string) string {
	segs := make([]string, 0, len(parts)+1)
	if strings.TrimSpace(notes) != "" {
		segs = append(segs, notes)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			segs = append(segs, p)
		}
	}
	return strings.Join(segs, "\n")
}
