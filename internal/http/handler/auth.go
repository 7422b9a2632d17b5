package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"toonranks/internal/auth"
	"toonranks/internal/http/middleware"
	"toonranks/internal/service"
)

const oauthStateCookie = "oauth_state"

// GoogleCodeFlow is the browser redirect variant of Google sign-in.
type GoogleCodeFlow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GoogleIdentity, error)
}

type signupRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	CaptchaToken string `json:"captcha_token"`
}

type loginRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captcha_token"`
}

type googleTokenRequest struct {
	Token string `json:"token"`
}

type resendRequest struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	CaptchaToken string `json:"captcha_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Signup registers an unverified account and mails a verification link.
//
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} service.SignupResult
// @Failure 409 {object} errorPayload
// @Router /auth/signup [post]
func Signup(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signupRequest
		if err := bindJSON(c, &req); err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.Signup(c.UserContext(), service.SignupInput{
			Username:     req.Username,
			Password:     req.Password,
			Email:        req.Email,
			CaptchaToken: req.CaptchaToken,
			RemoteIP:     c.IP(),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// Login exchanges username and password for an access token.
//
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} service.Session
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := bindJSON(c, &req); err != nil {
			return writeServiceError(c, err)
		}
		sess, err := svc.Login(c.UserContext(), service.LoginInput{
			Username:     req.Username,
			Password:     req.Password,
			CaptchaToken: req.CaptchaToken,
			RemoteIP:     c.IP(),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sess)
	}
}

// GoogleSignIn accepts a Google ID token obtained by the client.
func GoogleSignIn(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req googleTokenRequest
		if err := bindJSON(c, &req); err != nil {
			return writeServiceError(c, err)
		}
		sess, err := svc.GoogleSignIn(c.UserContext(), req.Token)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sess)
	}
}

// GoogleLogin starts the code flow by redirecting to Google's consent page.
func GoogleLogin(flow GoogleCodeFlow) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := auth.NewState()
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Cookie(&fiber.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/auth/google",
			Expires:  time.Now().Add(10 * time.Minute),
			Secure:   c.Protocol() == "https",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.Redirect(flow.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
	}
}

// GoogleCallback completes the code flow and signs the user in.
func GoogleCallback(flow GoogleCodeFlow, svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := c.Cookies(oauthStateCookie)
		c.ClearCookie(oauthStateCookie)
		if state == "" || c.Query("state") != state {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATE", "Invalid OAuth state")
		}
		code := c.Query("code")
		if code == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_CODE", "Missing authorization code")
		}

		id, err := flow.Exchange(c.UserContext(), code)
		if err != nil {
			return writeServiceError(c, service.ErrInvalidGoogleToken)
		}
		sess, err := svc.SignInIdentity(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sess)
	}
}

// VerifyEmail marks the account behind a verification token as verified.
//
// @Summary Verify email
// @Tags auth
// @Produce json
// @Param token query string true "verification token"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorPayload
// @Router /auth/verify-email [get]
func VerifyEmail(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			return writeError(c, fiber.StatusUnprocessableEntity, "MISSING_TOKEN", "token is required")
		}
		msg, err := svc.VerifyEmail(c.UserContext(), token)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: msg})
	}
}

// ResendVerification mails a fresh verification link. Responses are generic
// so the endpoint cannot be used to probe for accounts.
func ResendVerification(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req resendRequest
		if err := bindJSON(c, &req); err != nil {
			return writeServiceError(c, err)
		}
		msg, err := svc.ResendVerification(c.UserContext(), service.ResendInput{
			Email:        req.Email,
			Username:     req.Username,
			CaptchaToken: req.CaptchaToken,
			RemoteIP:     c.IP(),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: msg})
	}
}

// Me returns the authenticated user.
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(middleware.CurrentUser(c))
	}
}
