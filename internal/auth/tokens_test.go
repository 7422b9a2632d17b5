package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonranks/internal/config"
	"toonranks/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, now time.Time) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(config.AuthConfig{SecretKey: testSecret})
	require.NoError(t, err)
	m.now = func() time.Time { return now }
	return m
}

func TestNewTokenManager_WeakSecret(t *testing.T) {
	_, err := NewTokenManager(config.AuthConfig{SecretKey: "short"})
	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestNewTokenManager_Defaults(t *testing.T) {
	m, err := NewTokenManager(config.AuthConfig{SecretKey: testSecret})
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, m.accessTTL)
	assert.Equal(t, time.Hour, m.emailTTL)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)

	raw, err := m.IssueAccess(&model.User{ID: 7, Username: "reader", Role: model.RoleAdmin})
	require.NoError(t, err)

	claims, err := m.ParseAccess(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "reader", claims.Subject)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, now.Add(72*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestAccessToken_Rejections(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)
	raw, err := m.IssueAccess(&model.User{ID: 7, Username: "reader", Role: model.RoleGeneral})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newTestManager(t, now.Add(73*time.Hour))
		_, err := later.ParseAccess(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewTokenManager(config.AuthConfig{SecretKey: strings.Repeat("x", 32)})
		require.NoError(t, err)
		other.now = m.now
		_, err = other.ParseAccess(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS512, AccessClaims{
			UserID:           7,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "reader", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		})
		s, err := tok.SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = m.ParseAccess(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("email token is not an access token", func(t *testing.T) {
		s, err := m.IssueEmailToken("a@b.c")
		require.NoError(t, err)
		_, err = m.ParseAccess(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ParseAccess("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestEmailToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)

	raw, err := m.IssueEmailToken("reader@example.com")
	require.NoError(t, err)

	email, err := m.ParseEmailToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", email)

	expired := newTestManager(t, now.Add(61*time.Minute))
	_, err = expired.ParseEmailToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := m.IssueAccess(&model.User{ID: 1, Username: "u"})
	require.NoError(t, err)
	_, err = m.ParseEmailToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("", "hunter22"))
}
