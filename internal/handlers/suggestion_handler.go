package handlers

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/analytics"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/suggestions"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type SuggestionHandler struct {
	catalog   *suggestions.Catalog
	history   *services.HistoryStore
	validator *validation.Validator
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewSuggestionHandler(catalog *suggestions.Catalog, history *services.HistoryStore, v *validation.Validator, m *metrics.Metrics) *SuggestionHandler {
	return &SuggestionHandler{catalog: catalog, history: history, validator: v, metrics: m, now: time.Now}
}

// Generate serves anonymous and signed-in callers alike. For signed-in
// callers the result is also appended to their history; a failed save is
// logged and does not change the response.
func (h *SuggestionHandler) Generate(c *fiber.Ctx) error {
	in, err := h.validator.ParseSuggestion(c.Body())
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	id, isAuthenticated := auth.IdentityFrom(c).(auth.Authenticated)

	var previous int64
	userID, idErr := id.UserID()
	canSave := isAuthenticated && idErr == nil
	if canSave {
		if previous, err = h.history.CountSuggestions(ctx, userID); err != nil {
			slog.Warn("failed to count suggestion history", "user_id", userID.String(), "error", err)
			previous = 0
		}
	}

	goal := h.catalog.ResolveGoal(in.HealthGoal)
	items := h.catalog.Generate(in.Age, goal, isAuthenticated, int(previous))

	if canSave {
		if _, err := h.history.SaveSuggestion(ctx, userID, in.Age, goal, items); err != nil {
			h.metrics.HistorySaveFailed()
			slog.Error("failed to save suggestion history",
				"user_id", userID.String(),
				"request_id", utils.CopyString(c.GetRespHeader(fiber.HeaderXRequestID)),
				"path", utils.CopyString(c.Path()),
				"error", err,
			)
		}
	}

	h.metrics.ObserveSuggestion(goal, isAuthenticated)
	c.Locals(analytics.GoalLocalsKey, goal)

	now := h.now()
	return c.JSON(dto.SuggestionResponse{
		Success:     true,
		Suggestions: items,
		Meta: dto.SuggestionMeta{
			GeneratedAt:   now.UTC(),
			GoalCategory:  goal,
			Authenticated: isAuthenticated,
			Timestamp:     now.UnixMilli(),
		},
	})
}

func (h *SuggestionHandler) Goals(c *fiber.Ctx) error {
	return c.JSON(dto.OK(h.catalog.Goals()))
}
