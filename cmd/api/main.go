package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/EswarAdeshCh/Service-Desk/internal/api/http"
	"github.com/EswarAdeshCh/Service-Desk/internal/api/http/handlers"
	"github.com/EswarAdeshCh/Service-Desk/internal/auth"
	"github.com/EswarAdeshCh/Service-Desk/internal/config"
	"github.com/EswarAdeshCh/Service-Desk/internal/events"
	"github.com/EswarAdeshCh/Service-Desk/internal/observability"
	"github.com/EswarAdeshCh/Service-Desk/internal/persistence"
	"github.com/EswarAdeshCh/Service-Desk/internal/repository"
	"github.com/EswarAdeshCh/Service-Desk/internal/service"
	"github.com/EswarAdeshCh/Service-Desk/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
	})
	userService := service.NewUserService(*cfg, service.UserDependencies{
		UserRepo:      userRepo,
		ComplaintRepo: complaintRepo,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		UserRepo:      userRepo,
		MessageRepo:   messageRepo,
		Dispatcher:    dispatcher,
	})
	messageService := service.NewMessageService(service.MessageDependencies{
		MessageRepo:   messageRepo,
		ComplaintRepo: complaintRepo,
		Dispatcher:    dispatcher,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		ComplaintRepo: complaintRepo,
		UserRepo:      userRepo,
		MessageRepo:   messageRepo,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Admin:          handlers.NewAdminHandler(userService, complaintService, reportService),
		Agent:          handlers.NewAgentHandler(complaintService, reportService),
		Messages:       handlers.NewMessagesHandler(messageService),
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
