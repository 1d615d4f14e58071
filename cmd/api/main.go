package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ringside/roster-service/internal/api/http"
	"github.com/ringside/roster-service/internal/api/http/handlers"
	"github.com/ringside/roster-service/internal/auth"
	"github.com/ringside/roster-service/internal/config"
	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/events"
	"github.com/ringside/roster-service/internal/lifecycle"
	"github.com/ringside/roster-service/internal/observability"
	"github.com/ringside/roster-service/internal/persistence"
	"github.com/ringside/roster-service/internal/repository"
	"github.com/ringside/roster-service/internal/service"
	"github.com/ringside/roster-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	rosterRepo := repository.NewRosterRepository(pool)
	spanRepo := repository.NewSpanRepository(pool)
	membershipRepo := repository.NewMembershipRepository(pool)
	titleRepo := repository.NewTitleRepository(pool)
	stableRepo := repository.NewStableRepository(pool)
	venueRepo := repository.NewVenueRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	clock := lifecycle.SystemClock()
	txManager := persistence.NewTransactionManager(pool)
	dispatcher := events.NewInMemoryDispatcher()

	rosterService := service.NewRosterService(service.RosterDependencies{
		MemberRepo:     rosterRepo,
		SpanRepo:       spanRepo,
		MembershipRepo: membershipRepo,
		AuditRepo:      auditRepo,
		Dispatcher:     dispatcher,
		Tx:             txManager,
		Clock:          clock,
		Logger:         logger,
	})
	activationService := service.NewActivationService(service.ActivationDependencies{
		TitleRepo:      titleRepo,
		StableRepo:     stableRepo,
		SpanRepo:       spanRepo,
		MembershipRepo: membershipRepo,
		AuditRepo:      auditRepo,
		Dispatcher:     dispatcher,
		Tx:             txManager,
		Clock:          clock,
	})
	membershipService := service.NewMembershipService(service.MembershipDependencies{
		MemberRepo:     rosterRepo,
		StableRepo:     stableRepo,
		MembershipRepo: membershipRepo,
		Roster:         rosterService,
		Dispatcher:     dispatcher,
		Tx:             txManager,
		Clock:          clock,
	})
	bookingService := service.NewBookingService(service.BookingDependencies{
		VenueRepo:  venueRepo,
		EventRepo:  eventRepo,
		MemberRepo: rosterRepo,
		TitleRepo:  titleRepo,
		Dispatcher: dispatcher,
		Tx:         txManager,
		Clock:      clock,
	})

	tokens := auth.NewTokenManager(cfg.Auth, clock)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	authService := service.NewAuthService(userRepo, tokens, hasher)
	auditService := service.NewAuditService(auditRepo, logger)
	statusCache := service.NewStatusCache(redis.Client, rosterRepo, titleRepo, cfg.Cache.TTL(), logger)

	worker.Register(dispatcher, auditService, statusCache)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:      handlers.NewAuthHandler(authService),
		Wrestlers: handlers.NewRosterHandler(domain.KindWrestler, rosterService, auditService, membershipService),
		Managers:  handlers.NewRosterHandler(domain.KindManager, rosterService, auditService, membershipService),
		Referees:  handlers.NewRosterHandler(domain.KindReferee, rosterService, auditService, membershipService),
		TagTeams:  handlers.NewRosterHandler(domain.KindTagTeam, rosterService, auditService, membershipService),
		Titles:    handlers.NewTitlesHandler(activationService, auditService),
		Stables:   handlers.NewStablesHandler(activationService, membershipService, auditService),
		Venues:    handlers.NewVenuesHandler(bookingService),
		Events:    handlers.NewEventsHandler(bookingService),
		Reports:   handlers.NewReportsHandler(statusCache),
		Tokens:    tokens,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
