package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/cache"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/email"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/jobs"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/notification"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/handlers"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/pipeline"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/repositories"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/services"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/quote-desk-be/cmd/support-api/docs"
)

const (
	companyCacheTTL = 5 * time.Minute
	jobRetention    = 7 * 24 * time.Hour
)

// @title Quote Desk API
// @version 1.0
// @description Support chat widget backend: diagnostic chat, quotes and company administration.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)
	log.Info().Str("port", cfg.Port).Msg("🚀 Starting support-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.NewDB(cfg.DatabaseDriver, cfg.DatabaseURL)
	defer db.Close()

	if cfg.AutoMigrate {
		if err := db.GORM.AutoMigrate(append(models.All(), &audit.AuditLog{}, &jobs.Job{})...); err != nil {
			log.Fatal().Err(err).Msg("❌ Auto migration failed")
		}
		log.Info().Msg("✅ Schema migrated")
	}

	// Repositories
	companyRepo := repositories.NewCompanyRepo(db.GORM)
	conversationRepo := repositories.NewConversationRepo(db.GORM)
	summaryRepo := repositories.NewSummaryRepo(db.GORM)
	issueStatRepo := repositories.NewIssueStatRepo(db.GORM)
	quoteRepo := repositories.NewQuoteRepo(db.GORM)

	// Optional Redis cache in front of company lookups
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ Redis unavailable, company cache disabled")
		} else {
			redisClient = client
			defer redisClient.Close()
			log.Info().Msg("✅ Redis connected")
		}
	}
	companyCache := cache.NewJSONCache[models.Company](redisClient, "company:domain:", companyCacheTTL)
	resolver := tenant.NewResolver[models.Company](companyRepo, companyCache)

	llmService, err := llm.NewService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize LLM provider")
	}

	emailService, err := email.NewServiceFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize email provider")
	}
	notificationService := notification.NewService(emailService, cfg.AdminEmail)

	// Failed quote emails are retried from the jobs table
	var emailWorker *jobs.Worker
	if cfg.EmailWorkers > 0 {
		jobQueue := jobs.NewQueue(db.GORM)
		notificationService.WithRetryQueue(jobQueue)

		workerCfg := jobs.DefaultWorkerConfig()
		workerCfg.Concurrency = cfg.EmailWorkers
		emailWorker = jobs.NewWorker(jobQueue, workerCfg)
		emailWorker.RegisterHandler(notification.NewEmailJobHandler(emailService))
		emailWorker.Start(ctx)

		scheduler := jobs.NewScheduler()
		if err := scheduler.Add("jobs-cleanup", "@daily", jobs.CleanupTask(jobQueue, jobRetention)); err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to schedule job cleanup")
		}
		scheduler.Start()
		defer scheduler.Stop(context.Background())
	}

	publisher := events.Connect(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()

	authService := auth.NewService(cfg.AdminEmail, cfg.AdminPassword, cfg.JWTSecret)

	// Services
	chatService := services.NewChatService(resolver, pipeline.NewExtractor(llmService), conversationRepo, summaryRepo, issueStatRepo, publisher)
	quoteService := services.NewQuoteService(resolver, conversationRepo, summaryRepo, quoteRepo, notificationService, publisher)
	companyService := services.NewCompanyService(companyRepo, quoteRepo, issueStatRepo, resolver)
	statsService := services.NewStatsService(companyRepo, conversationRepo, quoteRepo, analytics.NewAggregator(db.GORM))
	auditService := audit.NewService(db.GORM)

	app := fiber.New(fiber.Config{
		AppName: "Quote Desk API",
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(utils.RequestLogger())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", metrics.Handler())

	handlers.RegisterRoutes(app, handlers.Handlers{
		Auth:    auth.NewHandler(authService),
		Chat:    handlers.NewChatHandler(chatService),
		Quote:   handlers.NewQuoteHandler(quoteService),
		Company: handlers.NewCompanyHandler(companyService, auditService),
		Stats:   handlers.NewStatsHandler(statsService),
		Audit:   handlers.NewAuditHandler(auditService),
		Health:  handlers.NewHealthHandler(db.DB, llmService.GetProviderName()),
	}, authService)

	go func() {
		<-ctx.Done()
		log.Info().Msg("🛑 Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("❌ Shutdown failed")
		}
	}()

	log.Info().Msgf("✅ support-api running at :%s", cfg.Port)
	log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("❌ Server stopped")
	}

	if emailWorker != nil {
		emailWorker.Wait()
	}
}
