package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	codestore "github.com/LuizzSiqueira/harmony-pets-system/internal/adapters/codes"
	mem "github.com/LuizzSiqueira/harmony-pets-system/internal/adapters/storage/memory"
	pg "github.com/LuizzSiqueira/harmony-pets-system/internal/adapters/storage/postgres"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/adapters/auth/jwtauth"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/accounts"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/adoptions"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/audit"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/pets"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/profiles"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/terms"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/twofactor"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/middleware"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/logger"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/mail"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/codes"
)

type Options struct {
	// AuthSecret assina os JWTs. Se vazio, usa AUTH_SECRET do ambiente e,
	// em último caso, um segredo de dev.
	AuthSecret string

	// DB opcional: se vier (ou DB_DSN estiver setado), usa Postgres; senão,
	// repositórios em memória.
	DB *sql.DB

	// Redis opcional para códigos efêmeros (2FA por e-mail, reset de senha).
	Redis *redis.Client

	Mailer mail.Mailer
	Log    logger.Logger

	// DebugAuth aceita os cabeçalhos X-Debug-User-ID/X-Debug-Role no lugar
	// de token. Exclusivo para testes e desenvolvimento local; desligado por
	// padrão e nunca válido com APP_ENV=production.
	DebugAuth bool
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.New(logger.Options{App: "harmony-pets"})
	}

	secret := opts.AuthSecret
	if secret == "" {
		secret = os.Getenv("AUTH_SECRET")
	}
	if secret == "" {
		secret = "dev-secret"
		log.Warn("AUTH_SECRET ausente, usando segredo de dev", nil)
	}
	tokens := jwtauth.New(secret, 0)

	mailer := opts.Mailer
	if mailer == nil {
		if smtp, err := mail.NewSMTPFromEnv(); err == nil && smtp != nil {
			mailer = smtp
		} else {
			mailer = mail.Nop()
		}
	}

	var codeStore codes.Store
	rdb := opts.Redis
	if rdb == nil {
		if addr := os.Getenv("REDIS_ADDR"); addr != "" {
			rdb = redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
		}
	}
	if rdb != nil {
		codeStore = codestore.NewRedis(rdb)
	} else {
		codeStore = codestore.NewMemory()
	}

	// Se não veio DB explícito, tenta por env (dev/handoff).
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				log.Error("falha ao conectar no Postgres, caindo para memória", map[string]any{"err": err.Error()})
			} else {
				db = opened
			}
		}
	}

	var (
		accountsRepo  accounts.Repository
		profilesRepo  profiles.Repository
		petsRepo      pets.Repository
		adoptionsRepo adoptions.Repository
		twoFARepo     twofactor.Repository
		termsRepo     terms.Repository
		auditRepo     audit.Repository
	)
	if db != nil {
		accountsRepo = pg.NewAccountsRepo(db)
		profilesRepo = pg.NewProfilesRepo(db)
		petsRepo = pg.NewPetsRepo(db)
		adoptionsRepo = pg.NewAdoptionsRepo(db)
		twoFARepo = pg.NewTwoFactorRepo(db)
		termsRepo = pg.NewTermsRepo(db)
		auditRepo = pg.NewAuditRepo(db)
	} else {
		memPets := mem.NewPetRepo()
		accountsRepo = mem.NewAccountsRepo()
		profilesRepo = mem.NewProfilesRepo()
		petsRepo = memPets
		adoptionsRepo = mem.NewAdoptionsRepo(memPets)
		twoFARepo = mem.NewTwoFactorRepo()
		termsRepo = mem.NewTermsRepo()
		auditRepo = mem.NewAuditRepo()
	}

	// Services por módulo.
	accountsSvc := accounts.NewService(accountsRepo, codeStore, mailer, log)
	profilesSvc := profiles.NewService(profilesRepo)
	petsSvc := pets.NewService(petsRepo)
	twoFASvc := twofactor.NewService(twoFARepo, codeStore, accountsSvc, mailer, log)
	termsSvc := terms.NewService(termsRepo, accountsSvc, log)
	auditSvc := audit.NewService(auditRepo, log)
	adoptionsSvc := adoptions.NewService(adoptionsRepo, petsSvc, contactDirectory{
		profiles: profilesSvc,
		accounts: accountsSvc,
	}, mailer, log)

	// Injeções resolvidas aqui para não criar ciclo entre os domínios.
	accountsSvc.SetTwoFactorChecker(twoFASvc)
	accountsSvc.SetProfileScrubber(profilesSvc)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	debugAuth := opts.DebugAuth || os.Getenv("AUTH_DEBUG_HEADERS") == "1"
	if debugAuth {
		log.Warn("cabeçalhos de debug de autenticação habilitados", nil)
	}
	r.Use(middleware.AuthContext(tokens, debugAuth))
	r.Use(middleware.Audit(func(ctx context.Context, e middleware.AuditEntry) {
		auditSvc.Record(ctx, audit.Entry{
			ActorID:    e.ActorID,
			ActorEmail: e.ActorEmail,
			Method:     e.Method,
			Path:       e.Path,
			RouteName:  e.RouteName,
			StatusCode: e.StatusCode,
			IP:         e.IP,
			UserAgent:  e.UserAgent,
			Params:     e.Params,
			DurationMS: e.DurationMS,
		})
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Rotas de autenticação, com freio por IP contra força bruta.
	r.Group(func(g chi.Router) {
		g.Use(middleware.RateLimit(rate.Every(2*time.Second), 5))
		accounts.RegisterRoutes(g, accountsSvc, tokens)
	})

	// Fora dos gates: o token pendente precisa chegar no verify, e o aceite
	// de termos precisa ser acessível antes do aceite existir.
	twofactor.RegisterRoutes(r, twoFASvc, tokens)
	terms.RegisterRoutes(r, termsSvc)

	// Subárvore protegida.
	r.Group(func(g chi.Router) {
		g.Use(middleware.TwoFactorGate(middleware.TwoFactorWindow, nil))
		g.Use(middleware.TermsGate(termsSvc))

		profiles.RegisterRoutes(g, profilesSvc)
		pets.RegisterRoutes(g, petsSvc, profilesSvc)
		adoptions.RegisterRoutes(g, adoptionsSvc, profilesSvc)
		audit.RegisterRoutes(g, auditSvc)
	})

	return r
}

// contactDirectory resolve contatos para as notificações do fluxo de adoção.
type contactDirectory struct {
	profiles *profiles.Service
	accounts *accounts.Service
}

func (d contactDirectory) AdopterContact(ctx context.Context, adopterID string) (adoptions.Contact, error) {
	a, err := d.profiles.GetAdopterByID(ctx, adopterID)
	if err != nil {
		return adoptions.Contact{}, err
	}
	u, err := d.accounts.GetByID(ctx, a.UserID)
	if err != nil {
		return adoptions.Contact{}, err
	}
	return adoptions.Contact{Name: u.Name, Email: u.Email}, nil
}

func (d contactDirectory) OrganizationContact(ctx context.Context, organizationID string) (adoptions.Contact, error) {
	o, err := d.profiles.GetOrganizationByID(ctx, organizationID)
	if err != nil {
		return adoptions.Contact{}, err
	}
	u, err := d.accounts.GetByID(ctx, o.UserID)
	if err != nil {
		return adoptions.Contact{}, err
	}
	return adoptions.Contact{Name: u.Name, Email: u.Email}, nil
}
