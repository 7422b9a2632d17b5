package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"toonranks/internal/http/middleware"
	"toonranks/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

type errorMapping struct {
	status int
	code   string
}

var kindTable = []struct {
	kind error
	errorMapping
}{
	{service.ErrValidation, errorMapping{fiber.StatusBadRequest, "VALIDATION_ERROR"}},
	{service.ErrUnprocessable, errorMapping{fiber.StatusUnprocessableEntity, "UNPROCESSABLE"}},
	{service.ErrUnauthorized, errorMapping{fiber.StatusUnauthorized, "UNAUTHORIZED"}},
	{service.ErrForbidden, errorMapping{fiber.StatusForbidden, "FORBIDDEN"}},
	{service.ErrNotFound, errorMapping{fiber.StatusNotFound, "NOT_FOUND"}},
	{service.ErrConflict, errorMapping{fiber.StatusConflict, "CONFLICT"}},
	{service.ErrUpstream, errorMapping{fiber.StatusBadGateway, "UPSTREAM_ERROR"}},
	{service.ErrInternal, errorMapping{fiber.StatusInternalServerError, "INTERNAL_ERROR"}},
}

// writeServiceError renders err using its service kind. Errors that are not
// *service.Error are logged and reported as a bare 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	var se *service.Error
	if errors.As(err, &se) {
		for _, m := range kindTable {
			if errors.Is(se.Kind, m.kind) {
				if m.status >= fiber.StatusInternalServerError {
					reportServerError(c, err, "request failed")
				}
				return writeError(c, m.status, m.code, se.Msg)
			}
		}
	}
	reportServerError(c, err, "request failed")
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// reportServerError logs err and marks the request span as failed.
func reportServerError(c *fiber.Ctx, err error, msg string) {
	ctx := c.UserContext()
	zerolog.Ctx(ctx).Error().Err(err).Str("path", c.Path()).Msg(msg)

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var se *service.Error
		if errors.As(err, &se) {
			return writeServiceError(c, err)
		}

		status := fiber.StatusInternalServerError
		message := ""
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return writeError(c, status, "UNAUTHORIZED", message)
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", message)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMITED", message)
		default:
			reportServerError(c, err, "unhandled error")
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
