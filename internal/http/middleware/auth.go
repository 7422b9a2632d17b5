package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"toonranks/internal/model"
	"toonranks/internal/service"
)

// UserLocalKey is where the authenticated *model.User is stored in locals.
const UserLocalKey = "user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

var (
	errNotAuthenticated = fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
	errAdminRequired    = fiber.NewError(fiber.StatusForbidden, "Admin access required")
)

func bearerToken(c *fiber.Ctx) string {
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return errNotAuthenticated
		}
		u, err := a.Authenticate(c.UserContext(), token)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				return err
			}
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return errNotAuthenticated
		}
		c.Locals(UserLocalKey, u)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is sent and otherwise
// continues anonymously.
func OptionalAuth(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if u, err := a.Authenticate(c.UserContext(), token); err == nil {
				c.Locals(UserLocalKey, u)
			}
		}
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CurrentUser(c).IsAdmin() {
			return errAdminRequired
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}
