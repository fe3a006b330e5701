package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/armywelfare/welfare-api/internal/adapters/httpapi"
	memcontactrepo "github.com/armywelfare/welfare-api/internal/adapters/memory/contactrepo"
	memgrievancerepo "github.com/armywelfare/welfare-api/internal/adapters/memory/grievancerepo"
	memidempotency "github.com/armywelfare/welfare-api/internal/adapters/memory/idempotency"
	memlistingrepo "github.com/armywelfare/welfare-api/internal/adapters/memory/listingrepo"
	memschemerepo "github.com/armywelfare/welfare-api/internal/adapters/memory/schemerepo"
	memuserrepo "github.com/armywelfare/welfare-api/internal/adapters/memory/userrepo"
	"github.com/armywelfare/welfare-api/internal/adapters/mongodb"
	mongocontactrepo "github.com/armywelfare/welfare-api/internal/adapters/mongodb/contactrepo"
	mongogrievancerepo "github.com/armywelfare/welfare-api/internal/adapters/mongodb/grievancerepo"
	mongoidempotency "github.com/armywelfare/welfare-api/internal/adapters/mongodb/idempotency"
	mongolistingrepo "github.com/armywelfare/welfare-api/internal/adapters/mongodb/listingrepo"
	mongoschemerepo "github.com/armywelfare/welfare-api/internal/adapters/mongodb/schemerepo"
	mongouserrepo "github.com/armywelfare/welfare-api/internal/adapters/mongodb/userrepo"
	"github.com/armywelfare/welfare-api/internal/adapters/openai"
	postgres "github.com/armywelfare/welfare-api/internal/adapters/postgres"
	pgcontactrepo "github.com/armywelfare/welfare-api/internal/adapters/postgres/contactrepo"
	pggrievancerepo "github.com/armywelfare/welfare-api/internal/adapters/postgres/grievancerepo"
	pgidempotency "github.com/armywelfare/welfare-api/internal/adapters/postgres/idempotency"
	pglistingrepo "github.com/armywelfare/welfare-api/internal/adapters/postgres/listingrepo"
	pgschemerepo "github.com/armywelfare/welfare-api/internal/adapters/postgres/schemerepo"
	pguserrepo "github.com/armywelfare/welfare-api/internal/adapters/postgres/userrepo"
	"github.com/armywelfare/welfare-api/internal/app/accounts"
	"github.com/armywelfare/welfare-api/internal/app/chat"
	"github.com/armywelfare/welfare-api/internal/app/contacts"
	"github.com/armywelfare/welfare-api/internal/app/dashboard"
	"github.com/armywelfare/welfare-api/internal/app/grievances"
	"github.com/armywelfare/welfare-api/internal/app/marketplace"
	"github.com/armywelfare/welfare-api/internal/app/schemes"
	"github.com/armywelfare/welfare-api/internal/assistant"
	"github.com/armywelfare/welfare-api/internal/platform/auth/password"
	"github.com/armywelfare/welfare-api/internal/platform/auth/token"
	platformclock "github.com/armywelfare/welfare-api/internal/platform/clock"
	"github.com/armywelfare/welfare-api/internal/platform/config"
	contactrepoport "github.com/armywelfare/welfare-api/internal/ports/out/contactrepo"
	grievancerepoport "github.com/armywelfare/welfare-api/internal/ports/out/grievancerepo"
	idempotencyport "github.com/armywelfare/welfare-api/internal/ports/out/idempotency"
	listingrepoport "github.com/armywelfare/welfare-api/internal/ports/out/listingrepo"
	schemerepoport "github.com/armywelfare/welfare-api/internal/ports/out/schemerepo"
	"github.com/armywelfare/welfare-api/internal/ports/out/textgen"
	userrepoport "github.com/armywelfare/welfare-api/internal/ports/out/userrepo"
)

type repos struct {
	schemes    schemerepoport.Repository
	users      userrepoport.Repository
	grievances grievancerepoport.Repository
	listings   listingrepoport.Repository
	contacts   contactrepoport.Repository
	idem       idempotencyport.Store
}

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rs, cleanup, err := openRepos(ctx, cfg)
	if err != nil {
		logger.Error("open storage", "backend", cfg.StorageBackend, "err", err)
		os.Exit(1)
	}
	defer cleanup()

	maker, err := token.NewJWTMaker(cfg.TokenSymmetricKey)
	if err != nil {
		logger.Error("invalid token key", "err", err)
		os.Exit(1)
	}

	// Auth configuration:
	// - Production: bearer tokens issued by /auth/login
	// - Local dev: AUTH_MODE=dev trusts X-Debug-Subject and X-Debug-Role
	var authMW func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case config.AuthModeDev:
		logger.Warn("dev auth enabled; requests are not authenticated")
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject, cfg.DevRole)
	default:
		authMW = httpapi.NewAuthMiddleware(maker)
	}

	clk := platformclock.NewSystemClock()

	schemeSvc := schemes.NewService(rs.schemes, clk)
	contactSvc := contacts.NewService(rs.contacts, clk)
	accountSvc := accounts.NewService(rs.users, password.NewHasher(password.DefaultParams), maker, clk, cfg.AccessTokenDuration)

	if cfg.SeedSchemes {
		n, err := schemeSvc.Seed(ctx)
		if err != nil {
			logger.Error("seed schemes", "err", err)
			os.Exit(1)
		}
		m, err := contactSvc.SeedDirectory(ctx)
		if err != nil {
			logger.Error("seed emergency directory", "err", err)
			os.Exit(1)
		}
		logger.Info("seeded reference data", "schemes", n, "contacts", m)
	}
	if cfg.BootstrapAdminEmail != "" {
		created, err := accountSvc.EnsureAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		if err != nil {
			logger.Error("bootstrap admin", "err", err)
			os.Exit(1)
		}
		if created {
			logger.Info("created bootstrap admin", "email", cfg.BootstrapAdminEmail)
		}
	}

	var gen textgen.Generator
	if cfg.OpenAIAPIKey != "" {
		gen = openai.NewClient(openai.Options{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.OpenAITimeout,
		})
	} else {
		logger.Warn("OPENAI_API_KEY not set; /api/chat will report the generator as unconfigured")
	}

	api := httpapi.NewServer(httpapi.Services{
		Schemes:     schemeSvc,
		Grievances:  grievances.NewService(rs.grievances, clk),
		Marketplace: marketplace.NewService(rs.listings, rs.users, clk),
		Contacts:    contactSvc,
		Accounts:    accountSvc,
		Chat:        chat.NewService(gen, assistant.NewSelector(), chat.NewRateGate(cfg.ChatCooldown), clk, logger),
		Dashboard: dashboard.NewService(dashboard.Repos{
			Schemes:    rs.schemes,
			Users:      rs.users,
			Grievances: rs.grievances,
			Listings:   rs.listings,
			Contacts:   rs.contacts,
		}),
		Idem:  rs.idem,
		Clock: clk,
		Log:   logger,
	})

	handler := httpapi.NewRouter(api, httpapi.RouterOptions{AuthMiddleware: authMW})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api listening", "port", cfg.Port, "storage", cfg.StorageBackend, "auth", cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// openRepos builds the repositories for the configured backend. The returned
// cleanup is never nil.
func openRepos(ctx context.Context, cfg config.Config) (repos, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{Migrate: true})
		if err != nil {
			return repos{}, nil, err
		}
		return repos{
			schemes:    pgschemerepo.NewRepo(pool),
			users:      pguserrepo.NewRepo(pool),
			grievances: pggrievancerepo.NewRepo(pool),
			listings:   pglistingrepo.NewRepo(pool),
			contacts:   pgcontactrepo.NewRepo(pool),
			idem:       pgidempotency.NewStore(pool),
		}, pool.Close, nil
	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return repos{}, nil, err
		}
		disconnect := func() { _ = client.Disconnect(context.Background()) }
		return repos{
			schemes:    mongoschemerepo.NewRepo(db),
			users:      mongouserrepo.NewRepo(db),
			grievances: mongogrievancerepo.NewRepo(db),
			listings:   mongolistingrepo.NewRepo(db),
			contacts:   mongocontactrepo.NewRepo(db),
			idem:       mongoidempotency.NewStore(db),
		}, disconnect, nil
	default:
		return repos{
			schemes:    memschemerepo.NewRepo(),
			users:      memuserrepo.NewRepo(),
			grievances: memgrievancerepo.NewRepo(),
			listings:   memlistingrepo.NewRepo(),
			contacts:   memcontactrepo.NewRepo(),
			idem:       memidempotency.NewStore(),
		}, func() {}, nil
	}
}
