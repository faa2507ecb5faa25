package middleware

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit allows max requests per client IP within a sliding window. The
// limiter sets Retry-After before the rejection is rendered.
func RateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return apperr.TooManyRequests(c.GetRespHeader(fiber.HeaderRetryAfter))
		},
	})
}
