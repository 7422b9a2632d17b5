// Package mail sends transactional email over SMTP.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"toonranks/internal/config"
	applog "toonranks/internal/log"
)

// ErrNotConfigured is returned when no SMTP host or sender address is set.
var ErrNotConfigured = errors.New("mail: smtp is not configured")

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// VerificationMessage builds the email carrying the confirmation link.
func VerificationMessage(to, publicOrigin, token string) Message {
	link := strings.TrimRight(publicOrigin, "/") + "/verify-email?token=" + token
	return Message{
		To:      to,
		Subject: "Toon Ranks --> Verify your email address",
		Body: "Hi Ranker,\n\n" +
			"Please click the link below to verify your email address:\n\n" +
			link + "\n\n" +
			"If you didn't sign up, just ignore this email.\n",
	}
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers mail through an SMTP relay. smtp.SendMail upgrades to
// STARTTLS whenever the server offers it.
type SMTPSender struct {
	cfg    config.SMTPConfig
	send   sendFunc
	now    func() time.Time
	logger zerolog.Logger
}

// NewSMTPSender creates a sender for the given relay.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		send:   smtp.SendMail,
		now:    time.Now,
		logger: applog.WithComponent("mail"),
	}
}

var _ Sender = (*SMTPSender)(nil)

// Send delivers msg. net/smtp has no context support, so ctx is only checked
// before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.cfg.Host == "" || s.cfg.From == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	start := s.now()
	if err := s.send(addr, auth, s.cfg.From, []string{msg.To}, s.render(msg)); err != nil {
		s.logger.Error().Err(err).Str("event", "mail_send_failed").Str("subject", msg.Subject).Msg("smtp send failed")
		return fmt.Errorf("smtp send: %w", err)
	}
	s.logger.Info().
		Str("event", "mail_sent").
		Str("subject", msg.Subject).
		Int64("duration_ms", s.now().Sub(start).Milliseconds()).
		Msg("mail sent")
	return nil
}

func (s *SMTPSender) render(msg Message) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", s.now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return b.Bytes()
}
