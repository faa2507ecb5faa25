package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/dto"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// ErrorHandler renders every error as the standard envelope with a fresh
// errorId. Server errors are logged with their cause and sent to Sentry; the
// cause reaches the client only in development.
func ErrorHandler(development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := apperr.From(err)
		errorID := uuid.NewString()
		c.Locals(apperr.LocalsKey, appErr)

		attrs := []any{
			"error_id", errorID,
			"request_id", utils.CopyString(c.GetRespHeader(fiber.HeaderXRequestID)),
			"method", utils.CopyString(c.Method()),
			"path", utils.CopyString(c.Path()),
			"status", appErr.Status,
			"code", appErr.Code,
		}
		if id, ok := auth.IdentityFrom(c).(auth.Authenticated); ok {
			attrs = append(attrs, "user_id", id.Claims.UserID)
		}

		if appErr.Status >= fiber.StatusInternalServerError {
			slog.Error("request failed", append(attrs, "error", err.Error())...)
			if hub := sentryfiber.GetHubFromContext(c); hub != nil {
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetTag("error_id", errorID)
					hub.CaptureException(err)
				})
			}
		} else {
			slog.Warn("request rejected", append(attrs, "message", appErr.Message)...)
		}

		if appErr.RetryAfter != "" {
			c.Set(fiber.HeaderRetryAfter, appErr.RetryAfter)
		}

		body := dto.ErrorBody{
			Message:    appErr.Message,
			Code:       appErr.Code,
			ErrorID:    errorID,
			Field:      appErr.Field,
			RetryAfter: appErr.RetryAfter,
		}
		if development && appErr.Status >= fiber.StatusInternalServerError {
			body.Detail = err.Error()
		}

		return c.Status(appErr.Status).JSON(dto.ErrorResponse{Success: false, Error: body})
	}
}
