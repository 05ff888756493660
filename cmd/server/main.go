package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/harborlight/foundation-backend/internal/config"
	"github.com/harborlight/foundation-backend/internal/database"
	"github.com/harborlight/foundation-backend/internal/dto"
	"github.com/harborlight/foundation-backend/internal/handlers"
	"github.com/harborlight/foundation-backend/internal/logging"
	"github.com/harborlight/foundation-backend/internal/metrics"
	"github.com/harborlight/foundation-backend/internal/middleware"
	"github.com/harborlight/foundation-backend/internal/payments"
	"github.com/harborlight/foundation-backend/internal/repository"
	"github.com/harborlight/foundation-backend/internal/routes"
	"github.com/harborlight/foundation-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.StripeSecretKey == "" {
		slog.Error("STRIPE_SECRET_KEY environment variable is required")
		os.Exit(1)
	}
	if cfg.NewsletterTokenSecret == "" {
		slog.Error("NEWSLETTER_TOKEN_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.StripeWebhookSecret == "" {
		slog.Warn("STRIPE_WEBHOOK_SECRET not set, webhook signatures will not be verified")
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Sessions
	sessions := middleware.NewSessionStore(cfg)

	// Stores and services
	userStore := repository.NewUserStore(database.DB)
	donationStore := repository.NewDonationStore(database.DB)
	gateway := payments.NewStripeGateway(cfg.StripeSecretKey)

	authService := services.NewAuthService(userStore)
	donationService := services.NewDonationService(donationStore, gateway)
	contentService := services.NewContentService(database.DB)
	newsletterService := services.NewNewsletterService(database.DB, cfg.NewsletterTokenSecret, cfg.NewsletterTokenTTL)
	submissionService := services.NewSubmissionService(database.DB)
	taskService := services.NewTaskService(database.DB)
	userService := services.NewUserService(userStore)

	if err := authService.EnsureAdminUser(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(metrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, sessions, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, sessions),
		Donation:   handlers.NewDonationHandler(donationService),
		Webhook:    handlers.NewWebhookHandler(donationService, cfg.StripeWebhookSecret),
		Content:    handlers.NewContentHandler(contentService),
		Newsletter: handlers.NewNewsletterHandler(newsletterService),
		Submission: handlers.NewSubmissionHandler(submissionService),
		Task:       handlers.NewTaskHandler(taskService),
		User:       handlers.NewUserHandler(userService),
		Health:     handlers.NewHealthHandler(),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
