package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"toonranks/internal/auth"
	applog "toonranks/internal/log"
	appmail "toonranks/internal/mail"
	"toonranks/internal/model"
	"toonranks/internal/repository"
)

// Messages returned by ResendVerification.
const (
	ResendGenericMessage  = "If an account exists, a new verification link has been sent."
	ResendVerifiedMessage = "Email is already verified. You can log in."
	ResendSentMessage     = "Verification email sent. Please check your inbox."
	SignupMessage         = "User created successfully. Please verify your email."
	VerifiedMessage       = "Email verification successful"
	AlreadyVerifiedMsg    = "Email already verified"
)

// SignupInput is the signup form.
type SignupInput struct {
	Username     string
	Password     string
	Email        string
	CaptchaToken string
	RemoteIP     string
}

// SignupResult echoes the verification token so clients can poll.
type SignupResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// LoginInput is the password login form.
type LoginInput struct {
	Username     string
	Password     string
	CaptchaToken string
	RemoteIP     string
}

// ResendInput identifies the account by email or username.
type ResendInput struct {
	Email        string
	Username     string
	CaptchaToken string
	RemoteIP     string
}

// Session is returned on successful sign in.
type Session struct {
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
}

// AuthService covers account lifecycle and sign in.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*SignupResult, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	// GoogleSignIn verifies a Google ID token and signs the owner in,
	// creating a verified account on first use.
	GoogleSignIn(ctx context.Context, idToken string) (*Session, error)
	// SignInIdentity signs in an identity already verified by the code flow.
	SignInIdentity(ctx context.Context, id *auth.GoogleIdentity) (*Session, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, in ResendInput) (string, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	users        repository.UserRepository
	tokens       *auth.TokenManager
	captcha      auth.CaptchaVerifier
	google       auth.GoogleVerifier
	mailer       appmail.Sender
	publicOrigin string
	now          func() time.Time
	logger       zerolog.Logger
}

// NewAuthService wires the account use cases.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, captcha auth.CaptchaVerifier,
	google auth.GoogleVerifier, mailer appmail.Sender, publicOrigin string) AuthService {
	return &authService{
		users:        users,
		tokens:       tokens,
		captcha:      captcha,
		google:       google,
		mailer:       mailer,
		publicOrigin: publicOrigin,
		now:          time.Now,
		logger:       applog.WithComponent("auth"),
	}
}

// verifyCaptcha translates verifier failures into client errors.
func (s *authService) verifyCaptcha(ctx context.Context, token, remoteIP string) error {
	err := s.captcha.Verify(ctx, strings.TrimSpace(token), remoteIP)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrCaptchaNotConfigured):
		return newError(ErrInternal, "Captcha secret key not configured")
	case errors.Is(err, auth.ErrCaptchaRejected):
		return invalid(err.Error())
	case errors.Is(err, auth.ErrCaptchaUnavailable):
		return newError(ErrUpstream, "Captcha verification request failed")
	}
	return err
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	if err := s.verifyCaptcha(ctx, in.CaptchaToken, in.RemoteIP); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || in.Password == "" {
		return nil, invalid("Username and password are required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, invalid("Invalid email address")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNoRows(err) {
		return nil, err
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !isNoRows(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, invalid("Password cannot be used")
	}

	u, err := s.users.Create(ctx, &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleGeneral,
		RegisteredAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			if strings.Contains(err.Error(), "email") {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	token, err := s.tokens.IssueEmailToken(email)
	if err == nil {
		err = s.mailer.Send(ctx, appmail.VerificationMessage(email, s.publicOrigin, token))
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", u.ID).Msg("signup_mail_failed")
		if delErr := s.users.Delete(ctx, u.ID); delErr != nil {
			s.logger.Error().Err(delErr).Int64("user_id", u.ID).Msg("signup_rollback_failed")
		}
		return nil, ErrSignupMailFailed
	}

	s.logger.Info().Int64("user_id", u.ID).Msg("signup")
	return &SignupResult{Message: SignupMessage, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := s.verifyCaptcha(ctx, in.CaptchaToken, in.RemoteIP); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Password) == "" {
		return nil, invalid("Username and password are required")
	}

	u, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsVerified {
		return nil, ErrEmailNotVerified
	}
	return s.session(u)
}

func (s *authService) session(u *model.User) (*Session, error) {
	token, err := s.tokens.IssueAccess(u)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, User: u}, nil
}

func (s *authService) GoogleSignIn(ctx context.Context, idToken string) (*Session, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, invalid("Missing token")
	}
	id, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("google_token_rejected")
		return nil, ErrInvalidGoogleToken
	}
	return s.SignInIdentity(ctx, id)
}

func (s *authService) SignInIdentity(ctx context.Context, id *auth.GoogleIdentity) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" {
		return nil, ErrInvalidGoogleToken
	}

	u, err := s.users.FindByEmail(ctx, email)
	if isNoRows(err) {
		name := strings.TrimSpace(id.Name)
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		u, err = s.users.Create(ctx, &model.User{
			Username:     name,
			Email:        email,
			Role:         model.RoleGeneral,
			IsVerified:   true,
			RegisteredAt: s.now().UTC(),
		})
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("google_sign_in_failed")
		return nil, ErrInvalidGoogleToken
	}
	return s.session(u)
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (string, error) {
	email, err := s.tokens.ParseEmailToken(token)
	if err != nil {
		return "", invalid("Invalid or expired token")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNoRows(err) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if u.IsVerified {
		return AlreadyVerifiedMsg, nil
	}
	if err := s.users.MarkVerified(ctx, u.ID); err != nil {
		return "", err
	}
	return VerifiedMessage, nil
}

func (s *authService) ResendVerification(ctx context.Context, in ResendInput) (string, error) {
	if in.CaptchaToken != "" {
		if err := s.captcha.Verify(ctx, strings.TrimSpace(in.CaptchaToken), in.RemoteIP); err != nil {
			return ResendGenericMessage, nil
		}
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" && username == "" {
		return "", invalid("Provide email or username")
	}

	var u *model.User
	var err error
	if email != "" {
		u, err = s.users.FindByEmail(ctx, email)
	}
	if u == nil && username != "" {
		u, err = s.users.FindByUsername(ctx, username)
	}
	if u == nil {
		if err != nil && !isNoRows(err) {
			return "", err
		}
		return ResendGenericMessage, nil
	}
	if u.IsVerified {
		return ResendVerifiedMessage, nil
	}

	token, err := s.tokens.IssueEmailToken(u.Email)
	if err == nil {
		err = s.mailer.Send(ctx, appmail.VerificationMessage(u.Email, s.publicOrigin, token))
	}
	if err != nil {
		s.logger.Warn().Err(err).Int64("user_id", u.ID).Msg("resend_mail_failed")
		return ResendGenericMessage, nil
	}
	return ResendSentMessage, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return u, nil
}
