package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Davve420/CRM-tester/internal/api/http"
	"github.com/Davve420/CRM-tester/internal/api/http/handlers"
	"github.com/Davve420/CRM-tester/internal/auth"
	"github.com/Davve420/CRM-tester/internal/config"
	"github.com/Davve420/CRM-tester/internal/events"
	"github.com/Davve420/CRM-tester/internal/notify"
	"github.com/Davve420/CRM-tester/internal/observability"
	"github.com/Davve420/CRM-tester/internal/persistence"
	"github.com/Davve420/CRM-tester/internal/repository"
	"github.com/Davve420/CRM-tester/internal/service"
	"github.com/Davve420/CRM-tester/internal/worker"
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
	issueRepo := repository.NewIssueRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:      issueRepo,
		CompanyRepo:    companyRepo,
		Dispatcher:     dispatcher,
		DefaultCompany: cfg.App.DefaultCompany,
	})
	messageService := service.NewMessageService(service.MessageDependencies{
		IssueRepo:   issueRepo,
		MessageRepo: messageRepo,
		Dispatcher:  dispatcher,
	})
	authService := service.NewAuthService(*cfg, accountRepo)

	mailer := notify.NewSMTPMailer(cfg.Smtp, logger)
	var mailQueue notify.MailQueue
	if redis.Client != nil {
		mailQueue = notify.NewRedisMailQueue(redis.Client)
	}
	notificationService := service.NewNotificationService(dispatcher, mailQueue, mailer, logger, cfg.App.ChatBaseURL)
	worker.StartNotificationWorker(ctx, notificationService, mailQueue, mailer, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Issues:         handlers.NewIssuesHandler(issueService),
		CompanyIssues:  handlers.NewCompanyIssuesHandler(issueService),
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
