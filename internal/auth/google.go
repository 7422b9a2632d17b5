package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"toonranks/internal/config"
)

// DefaultTokenInfoURL validates Google ID tokens server side.
const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var ErrInvalidGoogleToken = errors.New("auth: invalid google token")

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// GoogleIdentity is the verified profile behind a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// GoogleVerifier checks an ID token and returns the identity it asserts.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// NewHTTPClient returns an outbound client traced with otelhttp.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// TokenInfoVerifier validates ID tokens against Google's tokeninfo endpoint
// and checks audience, issuer and expiry locally.
type TokenInfoVerifier struct {
	clientID string
	endpoint string
	client   *http.Client
	now      func() time.Time
}

// NewTokenInfoVerifier builds a verifier for tokens minted for clientID.
func NewTokenInfoVerifier(clientID string, client *http.Client) *TokenInfoVerifier {
	if client == nil {
		client = NewHTTPClient(5 * time.Second)
	}
	return &TokenInfoVerifier{clientID: clientID, endpoint: DefaultTokenInfoURL, client: client, now: time.Now}
}

type tokenInfo struct {
	Aud           string `json:"aud"`
	Iss           string `json:"iss"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Exp           string `json:"exp"`
}

func (v *TokenInfoVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if idToken == "" || v.clientID == "" {
		return nil, ErrInvalidGoogleToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tokeninfo status %d", ErrInvalidGoogleToken, resp.StatusCode)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	if info.Aud != v.clientID {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidGoogleToken)
	}
	if !googleIssuers[info.Iss] {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidGoogleToken, info.Iss)
	}
	if exp, err := strconv.ParseInt(info.Exp, 10, 64); err != nil || time.Unix(exp, 0).Before(v.now()) {
		return nil, fmt.Errorf("%w: expired", ErrInvalidGoogleToken)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: no email", ErrInvalidGoogleToken)
	}
	if info.EmailVerified != "true" {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidGoogleToken)
	}
	return &GoogleIdentity{
		Subject:       info.Sub,
		Email:         strings.ToLower(info.Email),
		EmailVerified: true,
		Name:          info.Name,
	}, nil
}

// GoogleOAuth drives the authorization code flow and verifies the ID token
// returned by the exchange.
type GoogleOAuth struct {
	cfg      *oauth2.Config
	verifier GoogleVerifier
	client   *http.Client
}

// NewGoogleOAuth configures the code flow for the given client.
func NewGoogleOAuth(cfg config.GoogleConfig, verifier GoogleVerifier, client *http.Client) *GoogleOAuth {
	return &GoogleOAuth{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		verifier: verifier,
		client:   client,
	}
}

// AuthCodeURL is the consent page the browser is redirected to.
func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and verifies the ID token.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	if g.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)
	}
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", ErrInvalidGoogleToken, err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, fmt.Errorf("%w: no id_token in response", ErrInvalidGoogleToken)
	}
	return g.verifier.Verify(ctx, idToken)
}

// NewState returns a random value for the oauth_state cookie.
func NewState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
