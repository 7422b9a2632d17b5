package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"toonranks/internal/config"
)

var (
	ErrCaptchaNotConfigured = errors.New("captcha: secret key is not configured")
	ErrCaptchaUnavailable   = errors.New("captcha: verification service unavailable")
	ErrCaptchaRejected      = errors.New("captcha: verification failed")
)

// CaptchaError carries the error codes returned with a rejected token.
type CaptchaError struct {
	Codes []string
}

func (e *CaptchaError) Error() string {
	return fmt.Sprintf("Captcha verification failed (%s)", strings.Join(e.Codes, ", "))
}

func (e *CaptchaError) Unwrap() error { return ErrCaptchaRejected }

// CaptchaVerifier checks a client captcha token.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Recaptcha verifies tokens with Google reCAPTCHA siteverify.
type Recaptcha struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// NewRecaptcha builds a verifier. A nil client gets a traced 5s client.
func NewRecaptcha(cfg config.RecaptchaConfig, client *http.Client) *Recaptcha {
	if client == nil {
		client = NewHTTPClient(5 * time.Second)
	}
	return &Recaptcha{secret: cfg.SecretKey, verifyURL: cfg.VerifyURL, client: client}
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (r *Recaptcha) Verify(ctx context.Context, token, remoteIP string) error {
	if r.secret == "" {
		return ErrCaptchaNotConfigured
	}
	form := url.Values{"secret": {r.secret}, "response": {token}}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCaptchaUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrCaptchaUnavailable, resp.StatusCode)
	}

	var out siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%w: %v", ErrCaptchaUnavailable, err)
	}
	if !out.Success {
		return &CaptchaError{Codes: out.ErrorCodes}
	}
	return nil
}
