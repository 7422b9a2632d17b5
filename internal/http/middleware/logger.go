package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	applog "toonranks/internal/log"
)

// Logger logs each HTTP request through the process-wide zerolog logger.
func Logger() fiber.Handler {
	return AccessLog(applog.WithComponent("http"))
}

// LoggerWithWriter writes access entries as JSON lines to w. Tests use it to
// capture output.
func LoggerWithWriter(w io.Writer) fiber.Handler {
	return AccessLog(applog.New(applog.Config{Output: w}).With().Str("component", "http").Logger())
}

// AccessLog emits one entry per request with request_id, method, path, status
// and latency in milliseconds. 5xx responses are logged at error level, 4xx at
// warn.
func AccessLog(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The global error handler has not run yet.
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = logger.Error()
		case status >= fiber.StatusBadRequest:
			ev = logger.Warn()
		default:
			ev = logger.Info()
		}
		ev.Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Msg("http_request")

		return err
	}
}
