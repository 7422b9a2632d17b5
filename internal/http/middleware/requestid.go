package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "toonranks/internal/log"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID ensures every request carries an ID.
//
// The incoming X-Request-ID header is reused when present, otherwise a UUID is
// generated. The ID is stored in locals, echoed in the response header and
// attached to a request-scoped zerolog logger in the user context, so
// zerolog.Ctx(c.UserContext()) logs with request_id.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		logger := applog.Base().With().Str("request_id", id).Logger()
		c.SetUserContext(logger.WithContext(c.UserContext()))

		return c.Next()
	}
}

// GetRequestID returns the ID stored by RequestID, or "".
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(RequestIDLocalKey).(string)
	return id
}
