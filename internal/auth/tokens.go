// Package auth issues and verifies credentials: access tokens, email
// confirmation tokens, password hashes, Google identities and captchas.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"toonranks/internal/config"
	"toonranks/internal/model"
)

// MinSecretLength is the shortest SECRET_KEY accepted for HS256 signing.
const MinSecretLength = 32

const emailPurpose = "email-confirmation"

var (
	ErrWeakSecret   = fmt.Errorf("auth: SECRET_KEY must be at least %d characters", MinSecretLength)
	ErrInvalidToken = errors.New("auth: invalid token")
)

// AccessClaims are carried by bearer tokens. Subject holds the username.
type AccessClaims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type emailClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses HS256 tokens with a shared secret.
type TokenManager struct {
	secret    []byte
	accessTTL time.Duration
	emailTTL  time.Duration
	now       func() time.Time
}

// NewTokenManager validates the secret and applies default lifetimes.
func NewTokenManager(cfg config.AuthConfig) (*TokenManager, error) {
	if len(cfg.SecretKey) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	m := &TokenManager{
		secret:    []byte(cfg.SecretKey),
		accessTTL: cfg.AccessTokenTTL,
		emailTTL:  cfg.EmailTokenTTL,
		now:       time.Now,
	}
	if m.accessTTL <= 0 {
		m.accessTTL = 4320 * time.Minute
	}
	if m.emailTTL <= 0 {
		m.emailTTL = time.Hour
	}
	return m, nil
}

// IssueAccess signs a bearer token for u.
func (m *TokenManager) IssueAccess(u *model.User) (string, error) {
	now := m.now()
	claims := AccessClaims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseAccess verifies a bearer token and returns its claims.
func (m *TokenManager) ParseAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(raw, claims); err != nil {
		return nil, err
	}
	if claims.UserID <= 0 || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueEmailToken signs a short-lived token that confirms ownership of email.
func (m *TokenManager) IssueEmailToken(email string) (string, error) {
	now := m.now()
	claims := emailClaims{
		Email:   email,
		Purpose: emailPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.emailTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseEmailToken returns the email a confirmation token was issued for.
func (m *TokenManager) ParseEmailToken(raw string) (string, error) {
	claims := &emailClaims{}
	if err := m.parse(raw, claims); err != nil {
		return "", err
	}
	if claims.Purpose != emailPurpose || claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}

func (m *TokenManager) parse(raw string, claims jwt.Claims) error {
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !t.Valid {
		return ErrInvalidToken
	}
	return nil
}
