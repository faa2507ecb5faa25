// Package server assembles the Fiber application: global middleware, handlers
// and routes. It owns no background work; callers start and stop the
// analytics aggregator and log sinks themselves.
package server

import (
	"io"
	"os"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/analytics"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/suggestions"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/validation"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

const bodyLimit = 1 * 1024 * 1024

type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Catalog   *suggestions.Catalog
	Analytics *analytics.Aggregator
	Metrics   *metrics.Metrics
	Tokens    *auth.TokenManager
	Hasher    *auth.PasswordHasher
	History   *services.HistoryStore // optional, defaults to a store on DB
	AccessLog io.Writer              // optional, defaults to stdout
}

func New(d Deps) *fiber.App {
	cfg := d.Config
	if d.Hasher == nil {
		d.Hasher = auth.NewPasswordHasher()
	}
	if d.History == nil {
		d.History = services.NewHistoryStore(d.DB)
	}
	if d.AccessLog == nil {
		d.AccessLog = os.Stdout
	}

	// Services
	users := services.NewUserStore(d.DB, d.Hasher)
	authService := services.NewAuthService(users, d.Tokens)
	v := validation.New()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, users, d.History, v)
	suggestionHandler := handlers.NewSuggestionHandler(d.Catalog, d.History, v, d.Metrics)
	healthHandler := handlers.NewHealthHandler(d.DB)
	analyticsHandler := handlers.NewAnalyticsHandler(d.Analytics)

	app := fiber.New(fiber.Config{
		BodyLimit:             bodyLimit,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          handlers.ErrorHandler(cfg.IsDevelopment()),
		DisableStartupMessage: true,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware. Analytics sits outside recover so a recovered panic
	// is still counted as a failed request.
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
		Output: d.AccessLog,
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())
	app.Use(d.Metrics.Middleware())
	app.Use(middleware.Analytics(d.Analytics))
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))

	// Routes
	routes.Setup(app, cfg, d.Tokens, authHandler, suggestionHandler, healthHandler, analyticsHandler, d.Metrics.Handler())

	return app
}
