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
	"github.com/ramothapp/canteen-backend/internal/config"
	"github.com/ramothapp/canteen-backend/internal/database"
	"github.com/ramothapp/canteen-backend/internal/deadline"
	"github.com/ramothapp/canteen-backend/internal/geo"
	"github.com/ramothapp/canteen-backend/internal/handlers"
	"github.com/ramothapp/canteen-backend/internal/logging"
	"github.com/ramothapp/canteen-backend/internal/middleware"
	"github.com/ramothapp/canteen-backend/internal/notify"
	"github.com/ramothapp/canteen-backend/internal/routes"
	"github.com/ramothapp/canteen-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	siteLoc, err := time.LoadLocation(cfg.SiteTimezone)
	if err != nil {
		slog.Error("invalid site timezone", "tz", cfg.SiteTimezone, "error", err)
		os.Exit(1)
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

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Outbound events
	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.NATSURL != "" {
		n, err := notify.NewNATSNotifier(cfg.NATSURL)
		if err != nil {
			slog.Error("NATS connection failed, events disabled", "error", err)
		} else {
			notifier = n
			slog.Info("NATS connected", "url", cfg.NATSURL)
		}
	}
	defer notifier.Close()

	// Core
	clock := deadline.NewClock(cfg.TodayCutoffHour, cfg.TomorrowCutoffHour, siteLoc)
	validator := geo.NewValidator(cfg.SiteLat, cfg.SiteLon, cfg.SiteRadiusMeters, cfg.GeoMaxAccuracyM, cfg.GeoMaxSampleAge)
	store := services.NewGormSelectionStore(database.DB)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	userService := services.NewUserService(database.DB)
	menuService := services.NewMenuService(database.DB)
	selectionService := services.NewSelectionService(store, menuService, clock, validator, cfg.GeofencingEnabled, cfg.SiteRadiusMeters, notifier)
	reportService := services.NewReportService(database.DB, siteLoc)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	selectionHandler := handlers.NewSelectionHandler(selectionService, userService)
	menuHandler := handlers.NewMenuHandler(menuService)
	userHandler := handlers.NewUserHandler(userService)
	distributorHandler := handlers.NewDistributorHandler(selectionService)
	reportHandler := handlers.NewReportHandler(reportService, selectionService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, cfg, authHandler, healthHandler, selectionHandler, menuHandler, userHandler, distributorHandler, reportHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "geofencing", cfg.GeofencingEnabled, "tz", cfg.SiteTimezone)
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

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{"error": true, "message": message})
}
