package terms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/logger"
)

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byUser map[string]Acceptance
}

func newTestRepo() *testRepo { return &testRepo{byUser: map[string]Acceptance{}} }

func (r *testRepo) GetByUserID(_ context.Context, userID string) (Acceptance, error) {
	a, ok := r.byUser[userID]
	if !ok {
		return Acceptance{}, errRepoNotFound
	}
	return a, nil
}

func (r *testRepo) Upsert(_ context.Context, a Acceptance) error {
	r.byUser[a.UserID] = a
	return nil
}

type testAnonymizer struct {
	calls []string
}

func (a *testAnonymizer) Anonymize(_ context.Context, userID string) error {
	a.calls = append(a.calls, userID)
	return nil
}

func newTestService(repo *testRepo, anon Anonymizer) *Service {
	svc := NewService(repo, anon, logger.Nop())
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	return svc
}

func validAccept() AcceptInput {
	return AcceptInput{
		TermsOfUse: true,
		LGPD:       true,
		IP:         "203.0.113.7",
		UserAgent:  "Mozilla/5.0",
	}
}

func TestAccept(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)

	a, err := svc.Accept(context.Background(), "user-1", validAccept())
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if !a.Complete() {
		t.Error("aceite completo não reconhecido")
	}
	if a.Version != DefaultVersion {
		t.Errorf("versão = %q, esperado %q", a.Version, DefaultVersion)
	}
	if a.IP != "203.0.113.7" || a.UserAgent != "Mozilla/5.0" {
		t.Errorf("metadados = ip %q ua %q", a.IP, a.UserAgent)
	}
}

func TestAccept_RequiresBoth(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)
	ctx := context.Background()

	in := validAccept()
	in.LGPD = false
	if _, err := svc.Accept(ctx, "user-1", in); !errors.Is(err, ErrIncomplete) {
		t.Errorf("sem LGPD: %v", err)
	}

	in = validAccept()
	in.TermsOfUse = false
	if _, err := svc.Accept(ctx, "user-1", in); !errors.Is(err, ErrIncomplete) {
		t.Errorf("sem termos de uso: %v", err)
	}

	if ok, _ := svc.Accepted(ctx, "user-1"); ok {
		t.Error("aceite parcial valeu como consentimento")
	}
}

func TestRevoke_TriggersAnonymization(t *testing.T) {
	repo := newTestRepo()
	anon := &testAnonymizer{}
	svc := newTestService(repo, anon)
	ctx := context.Background()

	if _, err := svc.Accept(ctx, "user-1", validAccept()); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	a, err := svc.Revoke(ctx, "user-1")
	if err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if !a.Revoked || a.RevokedAt == nil {
		t.Error("revogação não registrada")
	}
	if len(anon.calls) != 1 || anon.calls[0] != "user-1" {
		t.Errorf("anonimização = %v", anon.calls)
	}

	if ok, _ := svc.Accepted(ctx, "user-1"); ok {
		t.Error("consentimento segue valendo após revogação")
	}

	// Revogar de novo é inócuo.
	if _, err := svc.Revoke(ctx, "user-1"); err != nil {
		t.Fatalf("segunda revogação: %v", err)
	}
	if len(anon.calls) != 1 {
		t.Errorf("anonimização repetida: %v", anon.calls)
	}
}

func TestRevoke_WithoutAcceptance(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)
	if _, err := svc.Revoke(context.Background(), "user-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("revogar sem aceite: %v", err)
	}
}

func TestReacceptAfterRevoke(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, &testAnonymizer{})
	ctx := context.Background()

	if _, err := svc.Accept(ctx, "user-1", validAccept()); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := svc.Revoke(ctx, "user-1"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	in := validAccept()
	in.Version = "2.0"
	a, err := svc.Accept(ctx, "user-1", in)
	if err != nil {
		t.Fatalf("novo aceite: %v", err)
	}
	if a.Revoked || a.RevokedAt != nil {
		t.Error("novo aceite manteve a revogação")
	}
	if a.Version != "2.0" {
		t.Errorf("versão = %q", a.Version)
	}
}
