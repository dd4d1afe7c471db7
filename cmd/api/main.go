package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/deskhub/helpdesk/internal/api/http"
	"github.com/deskhub/helpdesk/internal/api/http/handlers"
	"github.com/deskhub/helpdesk/internal/auth"
	"github.com/deskhub/helpdesk/internal/config"
	"github.com/deskhub/helpdesk/internal/events"
	"github.com/deskhub/helpdesk/internal/observability"
	"github.com/deskhub/helpdesk/internal/persistence"
	"github.com/deskhub/helpdesk/internal/presence"
	"github.com/deskhub/helpdesk/internal/repository"
	"github.com/deskhub/helpdesk/internal/service"
	"github.com/deskhub/helpdesk/internal/storage"
	"github.com/deskhub/helpdesk/internal/worker"
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

	fileStore, err := storage.NewDiskStore(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("failed to init file store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	clientRepo := repository.NewClientRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)

	tracker := presence.NewTracker(presence.NewRedisStore(redis.Client), cfg.Presence.Window(), logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	dispatcher := events.NewInMemoryDispatcherWithLogger(logger)
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(userRepo, employeeRepo, tokens, tracker, cfg.Auth.BcryptCost, logger)
	directoryService := service.NewDirectoryService(clientRepo, userRepo, employeeRepo, ticketRepo, tracker, cfg.Auth.BcryptCost, logger)
	ticketService := service.NewTicketService(ticketRepo, employeeRepo, dispatcher, logger)
	commentService := service.NewCommentService(commentRepo, ticketService, dispatcher, logger)
	attachmentService := service.NewAttachmentService(attachmentRepo, ticketService, fileStore, logger)
	summaryService := service.NewSummaryService(ticketRepo, employeeRepo, tracker, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService, logger)

	authMiddleware := auth.NewAuthMiddleware(tokens)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, tracker),
		Platform:       handlers.NewPlatformHandler(directoryService, metrics),
		Staff:          handlers.NewStaffHandler(directoryService),
		Tickets:        handlers.NewTicketsHandler(ticketService, commentService, summaryService),
		Attachments:    handlers.NewAttachmentsHandler(attachmentService),
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
