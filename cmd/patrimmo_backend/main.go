package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/patrimmo/patrimmo_backend/internal/core/services"
	"github.com/patrimmo/patrimmo_backend/internal/handlers"
	"github.com/patrimmo/patrimmo_backend/internal/jobs"
	"github.com/patrimmo/patrimmo_backend/internal/middleware"
	"github.com/patrimmo/patrimmo_backend/internal/platform/config"
	"github.com/patrimmo/patrimmo_backend/internal/platform/mailer"
	"github.com/patrimmo/patrimmo_backend/internal/repositories/database/pgsql"
	"github.com/patrimmo/patrimmo_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Patrimmo Backend API
// @version 1.0
// @description Rental property portfolio management with fiscal and investment simulations.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations", logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	// Alerts are dropped unless SMTP delivery is fully configured.
	var notifier services.AlertNotifier
	if alertMailer := mailer.NewAlertMailer(cfg, logger); alertMailer.Enabled() {
		notifier = alertMailer
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, notifier)

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	if cfg.SnapshotEnabled {
		scheduler := jobs.NewScheduler(logger)
		if err := scheduler.RegisterSnapshotJob(cfg.SnapshotCronSpec, serviceContainer.Snapshot); err != nil {
			logger.Error("Failed to schedule snapshot job", slog.String("error", err.Error()))
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("Snapshot job scheduled", slog.String("spec", cfg.SnapshotCronSpec))
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
