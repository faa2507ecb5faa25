package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/analytics"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

var analyticsSkipPrefixes = []string{"/health", "/metrics", "/analytics"}

// Analytics records one event per request once the response status is known.
// Errors from later handlers are rendered here so the status is final; a
// failure to record is logged and never reaches the client.
func Analytics(agg *analytics.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		path := c.Path()
		for _, prefix := range analyticsSkipPrefixes {
			if strings.HasPrefix(path, prefix) {
				return nil
			}
		}

		recordEvent(c, agg)
		return nil
	}
}

func recordEvent(c *fiber.Ctx, agg *analytics.Aggregator) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analytics record panicked", "panic", r, "path", utils.CopyString(c.Path()))
		}
	}()

	status := c.Response().StatusCode()
	ev := analytics.Event{
		IP:        utils.CopyString(c.IP()),
		Success:   status < fiber.StatusBadRequest,
		RequestID: utils.CopyString(c.GetRespHeader(fiber.HeaderXRequestID)),
	}
	if ev.Success {
		if goal, ok := c.Locals(analytics.GoalLocalsKey).(string); ok {
			ev.Goal = goal
		}
	} else {
		ev.Error = errorLabel(c, status)
	}
	agg.Record(ev)
}

func errorLabel(c *fiber.Ctx, status int) string {
	if appErr, ok := c.Locals(apperr.LocalsKey).(*apperr.Error); ok {
		return appErr.Code + ": " + appErr.Message
	}
	return http.StatusText(status)
}
