package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/analytics"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/server"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/suggestions"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.IsDevelopment())

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Suggestion catalog
	catalog, err := suggestions.LoadCatalog(cfg.SuggestionsCatalogPath)
	if err != nil {
		slog.Error("failed to load suggestions catalog", "path", cfg.SuggestionsCatalogPath, "error", err)
		os.Exit(1)
	}
	slog.Info("suggestions catalog loaded", "goals", len(catalog.Goals()))

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	// DB log sink (ERROR+ async batch)
	dbLogHandler := logging.AttachDatabase(db, cfg.IsDevelopment())

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	// Metrics + analytics
	m := metrics.New()
	agg := analytics.New(
		analytics.NewFileStore(cfg.AnalyticsFile, cfg.AnalyticsRetentionDays, time.Local),
		analytics.Options{OnDrop: m.AnalyticsDropped},
	)
	if err := agg.Start(); err != nil {
		slog.Error("analytics start failed", "error", err)
		os.Exit(1)
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	app := server.New(server.Deps{
		Config:    cfg,
		DB:        db,
		Catalog:   catalog,
		Analytics: agg,
		Metrics:   m,
		Tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "db_driver", cfg.DBDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := agg.Stop(ctx); err != nil {
		slog.Error("analytics shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
