package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// submissionLimiter rate limits scan and discovery submissions per client.
// Read endpoints stay unthrottled; only pipeline admissions are scarce.
func submissionLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               20,
		Expiration:        30 * time.Second,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Error:   "Too many submissions",
				Message: "Retry after the rate limit window expires",
			})
		},
	})
}
