package mail

import (
	"bytes"
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonranks/internal/config"
	applog "toonranks/internal/log"
)

func TestVerificationMessage(t *testing.T) {
	msg := VerificationMessage("a@b.c", "https://toonranks.com/", "tok")
	assert.Equal(t, "a@b.c", msg.To)
	assert.Contains(t, msg.Body, "https://toonranks.com/verify-email?token=tok")
	assert.Contains(t, msg.Subject, "Verify your email")
}

func TestSMTPSender_Send(t *testing.T) {
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p", From: "noreply@example.com"}
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("renders and sends", func(t *testing.T) {
		var (
			gotAddr string
			gotTo   []string
			gotMsg  []byte
			gotAuth smtp.Auth
		)
		var logs bytes.Buffer
		s := &SMTPSender{
			cfg: cfg,
			now: func() time.Time { return fixed },
			send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
				gotAddr, gotAuth, gotTo, gotMsg = addr, a, to, msg
				return nil
			},
			logger: applog.New(applog.Config{Output: &logs}),
		}

		err := s.Send(context.Background(), Message{To: "x@y.z", Subject: "Hi", Body: "line1\nline2"})
		require.NoError(t, err)
		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.NotNil(t, gotAuth)
		assert.Equal(t, []string{"x@y.z"}, gotTo)

		raw := string(gotMsg)
		assert.True(t, strings.HasPrefix(raw, "From: noreply@example.com\r\n"))
		assert.Contains(t, raw, "Subject: Hi\r\n")
		assert.Contains(t, raw, "\r\n\r\nline1\r\nline2")
		assert.Contains(t, logs.String(), `"event":"mail_sent"`)
	})

	t.Run("relay failure", func(t *testing.T) {
		s := &SMTPSender{
			cfg:    cfg,
			now:    time.Now,
			send:   func(string, smtp.Auth, string, []string, []byte) error { return errors.New("535 auth failed") },
			logger: applog.New(applog.Config{Output: &bytes.Buffer{}}),
		}
		err := s.Send(context.Background(), Message{To: "x@y.z"})
		assert.ErrorContains(t, err, "535")
	})

	t.Run("not configured", func(t *testing.T) {
		s := NewSMTPSender(config.SMTPConfig{})
		assert.ErrorIs(t, s.Send(context.Background(), Message{To: "x@y.z"}), ErrNotConfigured)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := NewSMTPSender(cfg)
		assert.ErrorIs(t, s.Send(ctx, Message{To: "x@y.z"}), context.Canceled)
	})
}
