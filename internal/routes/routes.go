package routes

import (
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	tokens *auth.TokenManager,
	authHandler *handlers.AuthHandler,
	suggestionHandler *handlers.SuggestionHandler,
	healthHandler *handlers.HealthHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	metricsHandler fiber.Handler,
) {
	// Probes are never rate limited
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", metricsHandler)

	// One limiter instance so every general route shares the per-IP budget
	general := middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow)
	credentials := middleware.RateLimit(cfg.AuthRateLimitMax, cfg.AuthRateLimitWindow)
	requireAuth := middleware.RequireAuth(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)

	// Credential endpoints share the stricter limiter
	authGroup := app.Group("/auth")
	authGroup.Post("/register", credentials, authHandler.Register)
	authGroup.Post("/login", credentials, authHandler.Login)

	// Protected auth endpoints
	authGroup.Get("/verify", general, requireAuth, authHandler.Verify)
	authGroup.Get("/suggestions", general, requireAuth, authHandler.History)
	authGroup.Get("/profile", general, requireAuth, authHandler.GetProfile)
	authGroup.Put("/profile", general, requireAuth, authHandler.UpdateProfile)
	authGroup.Delete("/account", credentials, requireAuth, authHandler.DeleteAccount)

	// Suggestions, identity optional
	suggestionGroup := app.Group("/suggestions")
	suggestionGroup.Get("/goals", general, suggestionHandler.Goals)
	suggestionGroup.Post("/", general, optionalAuth, suggestionHandler.Generate)

	// Analytics
	analyticsGroup := app.Group("/analytics")
	analyticsGroup.Get("/", general, analyticsHandler.Get)
	analyticsGroup.Get("/summary", general, analyticsHandler.Summary)
}
