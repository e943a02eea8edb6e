package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/kongdonovan/anarchy-and-associates-sub004/internal/api/http"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/api/http/handlers"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/auth"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/config"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/events"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/observability"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/persistence"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/queue"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/repository"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/service"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/validation"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/worker"
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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	staffRepo := repository.NewStaffRepository(pool)
	caseRepo := repository.NewCaseRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)
	reminderRepo := repository.NewReminderRepository(pool)
	caseCounter := repository.NewCaseCounter(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, auditRepo, logger))

	opQueue := queue.New(cfg.Queue.OperationTimeout(), logger, metrics)

	validator := validation.NewOrchestrator(cfg.Validation, logger, metrics)
	validator.RegisterStrategy(validation.NewPermissionStrategy(auth.NewRoleChecker()))
	validator.RegisterStrategy(validation.NewBusinessRuleStrategy(staffRepo, caseRepo))
	validator.RegisterStrategy(validation.NewCrossEntityStrategy(caseRepo, reminderRepo))

	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo:  staffRepo,
		Queue:      opQueue,
		Validator:  validator,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	caseService := service.NewCaseService(service.CaseDependencies{
		CaseRepo:   caseRepo,
		Counter:    caseCounter,
		Queue:      opQueue,
		Validator:  validator,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	gatewayAuth := service.NewGatewayAuthService(cfg.Auth, tokens, logger)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, opQueue),
		Auth:           handlers.NewAuthHandler(gatewayAuth),
		Staff:          handlers.NewStaffHandler(staffService),
		Cases:          handlers.NewCasesHandler(caseService),
		Audit:          handlers.NewAuditHandler(auditRepo),
		Reminders:      handlers.NewRemindersHandler(reminderRepo),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = app.Shutdown()
	if err := opQueue.Shutdown(shutdownCtx); err != nil {
		logger.Warn("queue drain incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
