package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/dealerdesk/triage-service/internal/api/http"
	"github.com/dealerdesk/triage-service/internal/api/http/handlers"
	"github.com/dealerdesk/triage-service/internal/auth"
	"github.com/dealerdesk/triage-service/internal/automation"
	"github.com/dealerdesk/triage-service/internal/classifier"
	"github.com/dealerdesk/triage-service/internal/config"
	"github.com/dealerdesk/triage-service/internal/events"
	"github.com/dealerdesk/triage-service/internal/observability"
	"github.com/dealerdesk/triage-service/internal/persistence"
	"github.com/dealerdesk/triage-service/internal/refdata"
	"github.com/dealerdesk/triage-service/internal/repository"
	"github.com/dealerdesk/triage-service/internal/service"
	"github.com/dealerdesk/triage-service/internal/worker"
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

	snapshot := refdata.Load(
		cfg.RefData.SyndicatorsPath,
		cfg.RefData.DealerMappingPath,
		cfg.RefData.BillingPath,
		logger,
	)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	cache := persistence.NewClassificationCache(redis, cfg.Triage.CacheTTL(), logger)

	pool := pg.PoolHandle()
	var (
		agentRepo          repository.AgentRepository
		classificationRepo repository.ClassificationRepository
		runRepo            repository.RunRepository
		auditRepo          repository.AuditRepository
		cancellationRepo   repository.CancellationRepository
	)
	var cancellationSink automation.CancellationLog = automation.NewMemoryCancellationLog()
	if pool != nil {
		agentRepo = repository.NewAgentRepository(pool)
		classificationRepo = repository.NewClassificationRepository(pool)
		runRepo = repository.NewRunRepository(pool)
		auditRepo = repository.NewAuditRepository(pool)
		cancellationRepo = repository.NewCancellationRepository(pool)
		cancellationSink = cancellationRepo
	}

	recorder := automation.NewRecorder(logger)
	automationEngine := automation.NewEngine(snapshot, automation.Sinks{
		Email:         recorder,
		Comments:      recorder,
		Feeds:         recorder,
		Cancellations: cancellationSink,
	}, cfg.Triage.InternalEmailDomain, logger)

	classifierEngine := classifier.NewEngine(nil, snapshot, cfg.Triage.InternalEmailDomain, logger)

	triageService := service.NewTriageService(service.TriageDependencies{
		ClassificationRepo: classificationRepo,
		RunRepo:            runRepo,
		AuditRepo:          auditRepo,
		CancellationRepo:   cancellationRepo,
		Cache:              cache,
		Classifier:         classifierEngine,
		Automation:         automationEngine,
		Dispatcher:         dispatcher,
		Metrics:            metrics,
		Logger:             logger,
		BatchMaxTickets:    cfg.Triage.BatchMaxTickets,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, agentRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), agentRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Agents:         handlers.NewAgentsHandler(authService),
		Triage:         handlers.NewTriageHandler(triageService),
		Stats:          handlers.NewStatsHandler(metrics),
		AuthMiddleware: authMiddleware,
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
