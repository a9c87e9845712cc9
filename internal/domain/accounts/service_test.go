package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/logger"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/mail"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/auth"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/codes"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(_ context.Context, u User) error {
	if _, ok := r.byID[u.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Update(_ context.Context, u User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, errRepoNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, errRepoNotFound
}

type testCodes struct {
	data map[string]string
}

func newTestCodes() *testCodes { return &testCodes{data: map[string]string{}} }

func (c *testCodes) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *testCodes) Get(_ context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", codes.ErrNotFound
	}
	return v, nil
}

func (c *testCodes) Del(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func newTestService() (*Service, *testRepo, *testCodes) {
	repo := newTestRepo()
	store := newTestCodes()
	svc := NewService(repo, store, mail.Nop(), logger.Nop())
	return svc, repo, store
}

// -------------------------
// Tests
// -------------------------

func TestRegister_And_Login(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email:    "Ana@Example.com",
		Name:     "Ana",
		Password: "senha-secreta",
		Role:     auth.RoleAdopter,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("e-mail não normalizado: %q", u.Email)
	}

	res, err := svc.Login(ctx, "ana@example.com", "senha-secreta")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.ID != u.ID {
		t.Fatalf("login devolveu outro usuário")
	}
	if res.TwoFactorRequired {
		t.Fatal("sem 2FA configurado não deveria exigir segunda etapa")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	in := RegisterInput{Email: "ana@example.com", Name: "Ana", Password: "senha-secreta", Role: auth.RoleAdopter}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("Register #1: %v", err)
	}
	if _, err := svc.Register(ctx, in); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("esperado ErrDuplicateEmail, veio %v", err)
	}
}

func TestRegister_RejectsWeakInput(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "", Name: "Ana", Password: "senha-secreta", Role: auth.RoleAdopter},
		{Email: "ana@example.com", Name: "", Password: "senha-secreta", Role: auth.RoleAdopter},
		{Email: "ana@example.com", Name: "Ana", Password: "curta", Role: auth.RoleAdopter},
		{Email: "ana@example.com", Name: "Ana", Password: "senha-secreta", Role: auth.RoleAdmin},
	}
	for i, in := range cases {
		if _, err := svc.Register(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("caso %d: esperado ErrInvalidInput, veio %v", i, err)
		}
	}
}

func TestLogin_BlocksAfterFiveFailures(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	base := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	u, err := svc.Register(ctx, RegisterInput{Email: "ana@example.com", Name: "Ana", Password: "senha-secreta", Role: auth.RoleAdopter})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := svc.Login(ctx, "ana@example.com", "errada"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("tentativa %d: esperado ErrInvalidCredentials, veio %v", i, err)
		}
	}

	stored, _ := repo.GetByID(ctx, u.ID)
	if stored.BlockedUntil == nil {
		t.Fatal("usuário deveria estar bloqueado após 5 falhas")
	}

	// Mesmo com a senha certa, bloqueado.
	if _, err := svc.Login(ctx, "ana@example.com", "senha-secreta"); !errors.Is(err, ErrBlocked) {
		t.Fatalf("esperado ErrBlocked, veio %v", err)
	}

	// Passados 15 minutos, volta a funcionar e zera o estado.
	svc.now = func() time.Time { return base.Add(16 * time.Minute) }
	res, err := svc.Login(ctx, "ana@example.com", "senha-secreta")
	if err != nil {
		t.Fatalf("login após bloqueio expirar: %v", err)
	}
	stored, _ = repo.GetByID(ctx, res.User.ID)
	if stored.BlockedUntil != nil || stored.FailedLogins != 0 {
		t.Fatalf("estado de bloqueio não zerado: %+v", stored)
	}
}

func TestPasswordReset_Flow(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "ana@example.com", Name: "Ana", Password: "senha-secreta", Role: auth.RoleAdopter}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.RequestPasswordReset(ctx, "ana@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}

	var token string
	for k := range store.data {
		token = k[len("pwdreset:"):]
	}
	if token == "" {
		t.Fatal("token de reset não armazenado")
	}

	if err := svc.ResetPassword(ctx, token, "nova-senha-longa"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := svc.Login(ctx, "ana@example.com", "senha-secreta"); err == nil {
		t.Fatal("senha antiga ainda aceita")
	}
	if _, err := svc.Login(ctx, "ana@example.com", "nova-senha-longa"); err != nil {
		t.Fatalf("senha nova rejeitada: %v", err)
	}

	// Token é de uso único.
	if err := svc.ResetPassword(ctx, token, "outra-senha-longa"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("token reutilizado deveria falhar, veio %v", err)
	}
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	svc, _, store := newTestService()

	if err := svc.RequestPasswordReset(context.Background(), "ninguem@example.com"); err != nil {
		t.Fatalf("e-mail desconhecido não deveria ser erro: %v", err)
	}
	if len(store.data) != 0 {
		t.Fatal("nenhum token deveria ter sido criado")
	}
}

func TestAnonymize(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "ana@example.com", Name: "Ana", Password: "senha-secreta", Role: auth.RoleAdopter})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.Anonymize(ctx, u.ID); err != nil {
		t.Fatalf("Anonymize: %v", err)
	}

	stored, _ := repo.GetByID(ctx, u.ID)
	if stored.Active {
		t.Fatal("conta anonimizada deveria estar inativa")
	}
	if stored.Email == "ana@example.com" || stored.Name == "Ana" {
		t.Fatalf("dados pessoais não apagados: %+v", stored)
	}
	if _, err := svc.Login(ctx, "ana@example.com", "senha-secreta"); err == nil {
		t.Fatal("login de conta anonimizada deveria falhar")
	}
}
