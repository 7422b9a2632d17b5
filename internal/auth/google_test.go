package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenInfoServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id-token", r.URL.Query().Get("id_token"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenInfoVerifier(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	exp := strconv.FormatInt(now.Add(time.Hour).Unix(), 10)
	valid := func(aud, iss string) string {
		return fmt.Sprintf(`{"aud":%q,"iss":%q,"sub":"42","email":"Reader@Example.com","email_verified":"true","name":"Reader","exp":%q}`, aud, iss, exp)
	}

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "valid", status: http.StatusOK, body: valid("client", "https://accounts.google.com")},
		{name: "bare issuer", status: http.StatusOK, body: valid("client", "accounts.google.com")},
		{name: "wrong audience", status: http.StatusOK, body: valid("other", "accounts.google.com"), wantErr: true},
		{name: "wrong issuer", status: http.StatusOK, body: valid("client", "evil.example.com"), wantErr: true},
		{name: "rejected by google", status: http.StatusBadRequest, body: `{"error":"invalid_token"}`, wantErr: true},
		{name: "malformed body", status: http.StatusOK, body: `{`, wantErr: true},
		{name: "unverified email", status: http.StatusOK, wantErr: true,
			body: fmt.Sprintf(`{"aud":"client","iss":"accounts.google.com","email":"a@b.c","email_verified":"false","exp":%q}`, exp)},
		{name: "verification missing", status: http.StatusOK, wantErr: true,
			body: fmt.Sprintf(`{"aud":"client","iss":"accounts.google.com","email":"a@b.c","exp":%q}`, exp)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := tokenInfoServer(t, tt.status, tt.body)
			v := NewTokenInfoVerifier("client", srv.Client())
			v.endpoint = srv.URL
			v.now = func() time.Time { return now }

			id, err := v.Verify(context.Background(), "id-token")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGoogleToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "reader@example.com", id.Email)
			assert.Equal(t, "Reader", id.Name)
			assert.True(t, id.EmailVerified)
		})
	}
}

func TestTokenInfoVerifier_Expired(t *testing.T) {
	body := `{"aud":"client","iss":"accounts.google.com","email":"a@b.c","exp":"100"}`
	srv := tokenInfoServer(t, http.StatusOK, body)
	v := NewTokenInfoVerifier("client", srv.Client())
	v.endpoint = srv.URL

	_, err := v.Verify(context.Background(), "id-token")
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)
}

func TestTokenInfoVerifier_EmptyToken(t *testing.T) {
	v := NewTokenInfoVerifier("client", nil)
	_, err := v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)
}

func TestGoogleOAuth_AuthCodeURL(t *testing.T) {
	g := NewGoogleOAuth(configForTest(), nil, nil)
	u := g.AuthCodeURL("state-123")
	assert.Contains(t, u, "accounts.google.com")
	assert.Contains(t, u, "state=state-123")
	assert.Contains(t, u, "client_id=client")
}

func TestNewState(t *testing.T) {
	a, err := NewState()
	require.NoError(t, err)
	b, err := NewState()
	require.NoError(t, err)
	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)
}
