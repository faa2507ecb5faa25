package handlers

import (
	"fmt"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/analytics"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

const defaultSummaryDays = 7

type AnalyticsHandler struct {
	agg *analytics.Aggregator
}

func NewAnalyticsHandler(agg *analytics.Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{agg: agg}
}

type analyticsResponse struct {
	Live  analytics.Day `json:"live"`
	Today analytics.Day `json:"today"`
}

// Get returns the in-memory counters next to the persisted record for today.
// The persisted side can trail the live side by the events still queued.
func (h *AnalyticsHandler) Get(c *fiber.Ctx) error {
	today, err := h.agg.Today()
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(dto.OK(analyticsResponse{Live: h.agg.Live(), Today: today}))
}

func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	days := defaultSummaryDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > analytics.MaxSummaryDays {
			return apperr.Validation("days", fmt.Sprintf("days must be an integer between 1 and %d", analytics.MaxSummaryDays))
		}
		days = n
	}

	summary, err := h.agg.Summary(days)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(dto.OK(summary))
}
