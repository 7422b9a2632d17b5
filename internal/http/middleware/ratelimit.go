package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"toonranks/internal/ratelimit"
)

// RateLimit answers 429 with Retry-After once the client IP exhausts l.
func RateLimit(l *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if l.Allow(ip) {
			return c.Next()
		}
		if secs := l.RetryAfter(ip); secs > 0 {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
		}
		return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests. Please try again later.")
	}
}
