package adoptions

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/pets"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/logger"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/mail"
)

var errStoreNotFound = errors.New("store: not found")

// fakeStore guarda pets e solicitações no mesmo lugar, para que os efeitos
// compostos (reserva, liberação, conclusão) fiquem visíveis nos testes. Ele
// implementa Repository; a visão de catálogo vem de catalogView.
type fakeStore struct {
	pets map[string]pets.Pet
	reqs map[string]Request
}

func newFakeStore() *fakeStore {
	return &fakeStore{pets: map[string]pets.Pet{}, reqs: map[string]Request{}}
}

func (s *fakeStore) addPet(p pets.Pet) { s.pets[p.ID] = p }

func (s *fakeStore) pet(t *testing.T, id string) pets.Pet {
	t.Helper()
	p, ok := s.pets[id]
	if !ok {
		t.Fatalf("pet %s não existe no fake", id)
	}
	return p
}

// catalogView expõe o fakeStore como PetCatalog.
type catalogView struct{ s *fakeStore }

func (c catalogView) GetByID(_ context.Context, id string) (pets.Pet, error) {
	p, ok := c.s.pets[id]
	if !ok {
		return pets.Pet{}, errStoreNotFound
	}
	return p, nil
}

func (s *fakeStore) Create(_ context.Context, r Request) error {
	s.reqs[r.ID] = r
	return nil
}

func (s *fakeStore) Update(_ context.Context, r Request) error {
	if _, ok := s.reqs[r.ID]; !ok {
		return errStoreNotFound
	}
	s.reqs[r.ID] = r
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (Request, error) {
	r, ok := s.reqs[id]
	if !ok {
		return Request{}, errStoreNotFound
	}
	return r, nil
}

func (s *fakeStore) HasActive(_ context.Context, petID, adopterID string) (bool, error) {
	for _, r := range s.reqs {
		if r.PetID == petID && r.AdopterID == adopterID && !r.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ListByAdopter(_ context.Context, adopterID string) ([]Request, error) {
	out := make([]Request, 0)
	for _, r := range s.reqs {
		if r.AdopterID == adopterID {
			out = append(out, r)
		}
	}
	sortByRequestedAt(out)
	return out, nil
}

func (s *fakeStore) ListByOrganization(_ context.Context, organizationID string, status Status) ([]Request, error) {
	out := make([]Request, 0)
	for _, r := range s.reqs {
		p, ok := s.pets[r.PetID]
		if !ok || p.OrganizationID != organizationID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	sortByRequestedAt(out)
	return out, nil
}

func (s *fakeStore) ListByPet(_ context.Context, petID string) ([]Request, error) {
	out := make([]Request, 0)
	for _, r := range s.reqs {
		if r.PetID == petID {
			out = append(out, r)
		}
	}
	sortByRequestedAt(out)
	return out, nil
}

func (s *fakeStore) StatsByOrganization(ctx context.Context, organizationID string) (Stats, error) {
	items, _ := s.ListByOrganization(ctx, organizationID, "")
	return buildStats(items), nil
}

func (s *fakeStore) StatsByPet(ctx context.Context, petID string) (Stats, error) {
	items, _ := s.ListByPet(ctx, petID)
	return buildStats(items), nil
}

func (s *fakeStore) Reserve(_ context.Context, r Request, rejectionResponse string, at time.Time) error {
	s.reqs[r.ID] = r

	p, ok := s.pets[r.PetID]
	if !ok {
		return errStoreNotFound
	}
	adopterID := r.AdopterID
	p.Status = pets.StatusReserved
	p.AdoptedByID = &adopterID
	s.pets[p.ID] = p

	for id, sib := range s.reqs {
		if id == r.ID || sib.PetID != r.PetID {
			continue
		}
		if sib.Status != StatusPending && sib.Status != StatusInInterview {
			continue
		}
		respondedAt := at
		sib.Status = StatusRejected
		sib.Response = rejectionResponse
		sib.RespondedAt = &respondedAt
		sib.UpdatedAt = at
		s.reqs[id] = sib
	}
	return nil
}

func (s *fakeStore) Release(_ context.Context, r Request) error {
	s.reqs[r.ID] = r

	p, ok := s.pets[r.PetID]
	if !ok {
		return errStoreNotFound
	}
	if p.Status == pets.StatusReserved && p.AdoptedByID != nil && *p.AdoptedByID == r.AdopterID {
		p.Status = pets.StatusAvailable
		p.AdoptedByID = nil
		s.pets[p.ID] = p
	}
	return nil
}

func (s *fakeStore) Complete(_ context.Context, r Request, at time.Time) error {
	s.reqs[r.ID] = r

	p, ok := s.pets[r.PetID]
	if !ok {
		return errStoreNotFound
	}
	adoptedAt := at
	adopterID := r.AdopterID
	p.Status = pets.StatusAdopted
	p.AdoptedByID = &adopterID
	p.AdoptedAt = &adoptedAt
	s.pets[p.ID] = p
	return nil
}

func sortByRequestedAt(items []Request) {
	sort.Slice(items, func(i, j int) bool { return items[i].RequestedAt.Before(items[j].RequestedAt) })
}

func buildStats(items []Request) Stats {
	st := Stats{Total: len(items)}
	for _, r := range items {
		switch r.Status {
		case StatusPending:
			st.Pending++
		case StatusInInterview:
			st.InInterview++
		case StatusInterviewApproved:
			st.InterviewApproved++
		case StatusScheduled:
			st.Scheduled++
		case StatusCompleted:
			st.Completed++
		case StatusRejected, StatusInterviewRejected:
			st.Rejected++
		case StatusCancelled:
			st.Cancelled++
		}
	}
	return st
}

// -------------------------
// Fixtures
// -------------------------

func newTestService(store *fakeStore) *Service {
	svc := NewService(store, catalogView{store}, nil, mail.Nop(), logger.Nop())
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	return svc
}

func availablePet(id, orgID string) pets.Pet {
	return pets.Pet{
		ID:             id,
		OrganizationID: orgID,
		Name:           "Thor",
		Species:        pets.SpeciesDog,
		Status:         pets.StatusAvailable,
		Lifecycle:      pets.LifecycleActive,
	}
}

func validSubmit() SubmitInput {
	return SubmitInput{
		Motive:     "Sempre quis um companheiro para a família.",
		Experience: "Já tive dois cães.",
		Housing:    "Casa com quintal cercado.",
	}
}

// -------------------------
// Submit
// -------------------------

func TestSubmit(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	r, err := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if r.Status != StatusPending {
		t.Errorf("status inicial = %s", r.Status)
	}
	if r.ID == "" || r.RequestedAt.IsZero() {
		t.Error("solicitação sem ID ou sem data")
	}
}

func TestSubmit_RequiresQuestionnaire(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)

	in := validSubmit()
	in.Housing = "   "
	if _, err := svc.Submit(context.Background(), "pet-1", "adopter-1", in); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("questionário incompleto: %v", err)
	}
}

func TestSubmit_DuplicateRequest(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit()); err != nil {
		t.Fatalf("primeira solicitação: %v", err)
	}
	if _, err := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit()); !errors.Is(err, ErrDuplicateRequest) {
		t.Errorf("segunda solicitação: %v", err)
	}
}

func TestSubmit_PetUnavailable(t *testing.T) {
	store := newFakeStore()
	reserved := availablePet("pet-1", "org-1")
	reserved.Status = pets.StatusReserved
	store.addPet(reserved)

	archived := availablePet("pet-2", "org-1")
	archived.Lifecycle = pets.LifecycleArchived
	store.addPet(archived)

	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit()); !errors.Is(err, ErrPetUnavailable) {
		t.Errorf("pet reservado: %v", err)
	}
	if _, err := svc.Submit(ctx, "pet-2", "adopter-1", validSubmit()); !errors.Is(err, ErrPetUnavailable) {
		t.Errorf("pet arquivado: %v", err)
	}
	if _, err := svc.Submit(ctx, "pet-404", "adopter-1", validSubmit()); !errors.Is(err, ErrNotFound) {
		t.Errorf("pet inexistente: %v", err)
	}
}

// -------------------------
// Fluxo completo
// -------------------------

func TestFullWorkflow(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	// Dois interessados no mesmo pet.
	r1, err := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit())
	if err != nil {
		t.Fatalf("Submit adopter-1: %v", err)
	}
	r2, err := svc.Submit(ctx, "pet-1", "adopter-2", validSubmit())
	if err != nil {
		t.Fatalf("Submit adopter-2: %v", err)
	}

	when := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	if _, err := svc.ScheduleInterview(ctx, r1.ID, "org-1", when, "Sede da ONG", ""); err != nil {
		t.Fatalf("ScheduleInterview: %v", err)
	}

	out, err := svc.ResolveInterview(ctx, r1.ID, "org-1", true, "Ótimo perfil.")
	if err != nil {
		t.Fatalf("ResolveInterview: %v", err)
	}
	if out.Status != StatusInterviewApproved {
		t.Fatalf("após entrevista aprovada: %s", out.Status)
	}

	pickup := time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)
	out, err = svc.SchedulePickup(ctx, r1.ID, "org-1", pickup, "Trazer documento.")
	if err != nil {
		t.Fatalf("SchedulePickup: %v", err)
	}
	if out.Status != StatusScheduled {
		t.Fatalf("após agendar retirada: %s", out.Status)
	}

	// Reserva: pet reservado para o interessado e irmã rejeitada.
	p := store.pet(t, "pet-1")
	if p.Status != pets.StatusReserved {
		t.Errorf("pet após reserva = %s", p.Status)
	}
	if p.AdoptedByID == nil || *p.AdoptedByID != "adopter-1" {
		t.Error("pet sem vínculo com o interessado aprovado")
	}
	sib, _ := store.GetByID(ctx, r2.ID)
	if sib.Status != StatusRejected {
		t.Errorf("irmã após reserva = %s", sib.Status)
	}
	if sib.Response != RejectionReservedMessage {
		t.Errorf("resposta da irmã = %q", sib.Response)
	}

	// Conclusão exige o termo.
	if _, err := svc.ConfirmCompletion(ctx, r1.ID, "org-1"); !errors.Is(err, ErrTermNotAccepted) {
		t.Fatalf("conclusão sem termo: %v", err)
	}

	out, err = svc.AcceptTerm(ctx, r1.ID, "adopter-1")
	if err != nil {
		t.Fatalf("AcceptTerm: %v", err)
	}
	if !out.TermAccepted || out.TermAcceptedAt == nil {
		t.Fatal("termo não registrado")
	}

	out, err = svc.ConfirmCompletion(ctx, r1.ID, "org-1")
	if err != nil {
		t.Fatalf("ConfirmCompletion: %v", err)
	}
	if out.Status != StatusCompleted {
		t.Fatalf("após conclusão: %s", out.Status)
	}

	p = store.pet(t, "pet-1")
	if p.Status != pets.StatusAdopted || p.AdoptedAt == nil {
		t.Errorf("pet após conclusão: status=%s adopted_at=%v", p.Status, p.AdoptedAt)
	}

	// Chamada repetida: sem efeitos, erro sentinela.
	again, err := svc.ConfirmCompletion(ctx, r1.ID, "org-1")
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("segunda conclusão: %v", err)
	}
	if again.Status != StatusCompleted {
		t.Errorf("estado devolvido na repetição: %s", again.Status)
	}
}

func TestResolveInterview_Rejected(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	r, _ := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit())
	if _, err := svc.ScheduleInterview(ctx, r.ID, "org-1", time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC), "Sede", ""); err != nil {
		t.Fatalf("ScheduleInterview: %v", err)
	}

	out, err := svc.ResolveInterview(ctx, r.ID, "org-1", false, "Perfil incompatível.")
	if err != nil {
		t.Fatalf("ResolveInterview: %v", err)
	}
	if out.Status != StatusInterviewRejected {
		t.Errorf("status = %s", out.Status)
	}
	if out.RespondedAt == nil {
		t.Error("RespondedAt vazio")
	}

	// Terminal: nada mais é permitido.
	if _, err := svc.Cancel(ctx, r.ID, "adopter-1", "Mudei de ideia sobre a adoção."); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancelar após rejeição: %v", err)
	}
}

func TestResolveInterview_WrongState(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	r, _ := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit())
	if _, err := svc.ResolveInterview(ctx, r.ID, "org-1", true, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("resolver entrevista sem agendar: %v", err)
	}
}

// -------------------------
// Cancelamento
// -------------------------

func TestCancel_ReasonTooShort(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	r, _ := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit())
	if _, err := svc.Cancel(ctx, r.ID, "adopter-1", "curto"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("justificativa curta: %v", err)
	}
}

func TestCancel_ReleasesReservation(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	r, _ := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit())
	if _, err := svc.Respond(ctx, r.ID, "org-1", true, "Aprovado direto."); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	p := store.pet(t, "pet-1")
	if p.Status != pets.StatusReserved {
		t.Fatalf("pet após aprovação direta = %s", p.Status)
	}

	out, err := svc.Cancel(ctx, r.ID, "adopter-1", "Tive um imprevisto familiar sério.")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if out.Status != StatusCancelled || out.CancelledAt == nil {
		t.Errorf("status=%s cancelled_at=%v", out.Status, out.CancelledAt)
	}

	p = store.pet(t, "pet-1")
	if p.Status != pets.StatusAvailable || p.AdoptedByID != nil {
		t.Errorf("pet não liberado: status=%s vinculado=%v", p.Status, p.AdoptedByID)
	}
}

// -------------------------
// Caminho legado
// -------------------------

func TestRespond_Reject(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	r, _ := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit())
	out, err := svc.Respond(ctx, r.ID, "org-1", false, "Sem disponibilidade no momento.")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if out.Status != StatusRejected {
		t.Errorf("status = %s", out.Status)
	}

	// Pet segue disponível: rejeição direta não reserva nada.
	p := store.pet(t, "pet-1")
	if p.Status != pets.StatusAvailable {
		t.Errorf("pet após rejeição = %s", p.Status)
	}
}

func TestRespond_OnlyFromPending(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	r, _ := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit())
	if _, err := svc.ScheduleInterview(ctx, r.ID, "org-1", time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC), "Sede", ""); err != nil {
		t.Fatalf("ScheduleInterview: %v", err)
	}
	if _, err := svc.Respond(ctx, r.ID, "org-1", false, "Tarde demais."); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("responder fora de pending: %v", err)
	}
	if _, err := svc.Respond(ctx, r.ID, "org-1", true, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("aprovação direta fora de pending: %v", err)
	}
}

// -------------------------
// Posse e listagens
// -------------------------

func TestOwnershipChecks(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	r, _ := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit())

	if _, err := svc.Respond(ctx, r.ID, "org-2", true, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("outro local respondendo: %v", err)
	}
	if _, err := svc.Cancel(ctx, r.ID, "adopter-2", "Não quero mais adotar este pet."); !errors.Is(err, ErrForbidden) {
		t.Errorf("outro interessado cancelando: %v", err)
	}
	if _, err := svc.AcceptTerm(ctx, r.ID, "adopter-2"); !errors.Is(err, ErrForbidden) {
		t.Errorf("outro interessado aceitando termo: %v", err)
	}
	if _, _, err := svc.PetHistory(ctx, "pet-1", "org-2"); !errors.Is(err, ErrForbidden) {
		t.Errorf("histórico de pet alheio: %v", err)
	}
}

func TestListByOrganization_StatusFilter(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	store.addPet(availablePet("pet-2", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	r1, _ := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit())
	if _, err := svc.Submit(ctx, "pet-2", "adopter-2", validSubmit()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Respond(ctx, r1.ID, "org-1", false, "Sem vaga."); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	pending, err := svc.ListByOrganization(ctx, "org-1", StatusPending)
	if err != nil {
		t.Fatalf("ListByOrganization: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pendentes = %d, esperado 1", len(pending))
	}

	if _, err := svc.ListByOrganization(ctx, "org-1", "bogus"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("status desconhecido no filtro: %v", err)
	}

	stats, err := svc.OrganizationStats(ctx, "org-1")
	if err != nil {
		t.Fatalf("OrganizationStats: %v", err)
	}
	if stats.Total != 2 || stats.Pending != 1 || stats.Rejected != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestAcceptTerm_WrongState(t *testing.T) {
	store := newFakeStore()
	store.addPet(availablePet("pet-1", "org-1"))
	svc := newTestService(store)
	ctx := context.Background()

	r, _ := svc.Submit(ctx, "pet-1", "adopter-1", validSubmit())
	if _, err := svc.AcceptTerm(ctx, r.ID, "adopter-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("termo em pending: %v", err)
	}
}
