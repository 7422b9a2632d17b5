package middleware

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonranks/internal/model"
	"toonranks/internal/ratelimit"
	"toonranks/internal/service"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})

	t.Run("user context carries a request logger", func(t *testing.T) {
		app := fiber.New()
		app.Use(RequestID())
		app.Get("/ctx", func(c *fiber.Ctx) error {
			l := zerolog.Ctx(c.UserContext())
			assert.NotEqual(t, zerolog.Disabled, l.GetLevel())
			return c.SendStatus(fiber.StatusNoContent)
		})

		resp, _ := app.Test(httptest.NewRequest("GET", "/ctx", nil))
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()

	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	require.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["time"])
	assert.Equal(t, "info", logData["level"])
}

func TestLogger_ErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(LoggerWithWriter(&buf))
	app.Get("/gone", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "gone")
	})

	app.Test(httptest.NewRequest("GET", "/gone", nil))

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, float64(fiber.StatusNotFound), logData["status"])
	assert.Equal(t, "warn", logData["level"])
}

type fakeAuthenticator map[string]*model.User

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (*model.User, error) {
	switch token {
	case "broken":
		return nil, fmt.Errorf("find user: %w", sql.ErrConnDone)
	}
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, service.ErrNotAuthenticated
}

func authApp() *fiber.App {
	users := fakeAuthenticator{
		"member": {ID: 2, Username: "member", Role: model.RoleGeneral},
		"admin":  {ID: 1, Username: "admin", Role: model.RoleAdmin},
	}
	app := fiber.New()
	whoami := func(c *fiber.Ctx) error {
		if u := CurrentUser(c); u != nil {
			return c.SendString(u.Username)
		}
		return c.SendString("anonymous")
	}
	app.Get("/me", RequireAuth(users), whoami)
	app.Get("/admin", RequireAuth(users), RequireAdmin(), whoami)
	app.Get("/maybe", OptionalAuth(users), whoami)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	app := authApp()

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "/me", "Bearer member", fiber.StatusOK, "member"},
		{"scheme is case insensitive", "/me", "bearer member", fiber.StatusOK, "member"},
		{"missing header", "/me", "", fiber.StatusUnauthorized, "Could not validate credentials"},
		{"wrong scheme", "/me", "Basic member", fiber.StatusUnauthorized, "Could not validate credentials"},
		{"unknown token", "/me", "Bearer nobody", fiber.StatusUnauthorized, "Could not validate credentials"},
		{"lookup failure is not a 401", "/me", "Bearer broken", fiber.StatusInternalServerError, ""},
		{"admin guard rejects members", "/admin", "Bearer member", fiber.StatusForbidden, "Admin access required"},
		{"admin guard admits admins", "/admin", "Bearer admin", fiber.StatusOK, "admin"},
		{"optional with token", "/maybe", "Bearer member", fiber.StatusOK, "member"},
		{"optional with bad token", "/maybe", "Bearer nobody", fiber.StatusOK, "anonymous"},
		{"optional without token", "/maybe", "", fiber.StatusOK, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := ratelimit.NewMetrics(reg)
	l := ratelimit.PerMinute("signup", 2, metrics)

	app := fiber.New()
	app.Post("/signup", RateLimit(l), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		resp, _ := app.Test(httptest.NewRequest("POST", "/signup", nil))
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, _ := app.Test(httptest.NewRequest("POST", "/signup", nil))
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
	n, err := testutil.GatherAndCount(reg, "ratelimit_rejections_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
