package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/textproto"
	"time"

	mail "gopkg.in/mail.v2"

	"github.com/orbit/isswatch/internal/geo"
)

// sendTimeout guards DialAndSend, which has no context support.
const sendTimeout = 15 * time.Second

// Config holds the SMTP submission settings. The message is sent to the
// observer's own address (sender == recipient).
type Config struct {
	Host     string
	Port     int
	Address  string
	Password string
	Observer geo.Coordinate
}

// Mailer submits plain-text sighting notifications over SMTP with STARTTLS.
type Mailer struct {
	cfg    Config
	dialer *mail.Dialer
	logger *slog.Logger
}

// NewMailer creates a Mailer for the given SMTP account.
func NewMailer(cfg Config, logger *slog.Logger) *Mailer {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Address, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.Timeout = sendTimeout

	return &Mailer{
		cfg:    cfg,
		dialer: d,
		logger: logger,
	}
}

// Notify composes and submits the sighting email. Credential rejections
// come back as *AuthError, everything else as a wrapped send error.
func (m *Mailer) Notify(ctx context.Context, distanceKm float64, at time.Time) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.Address)
	msg.SetHeader("To", m.cfg.Address)
	msg.SetHeader("Subject", Subject)
	msg.SetBody("text/plain", ComposeBody(distanceKm, at, m.cfg.Observer))

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			if isAuthReply(err) {
				return &AuthError{Err: err}
			}
			return fmt.Errorf("sending notification: %w", err)
		}
		m.logger.Info("notification email sent", "to", m.cfg.Address, "distance_km", distanceKm)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sending notification: %w", ctx.Err())
	case <-time.After(sendTimeout + time.Second):
		return fmt.Errorf("sending notification: timed out after %s", sendTimeout)
	}
}

// isAuthReply reports whether err carries an SMTP credential-rejection
// reply code.
func isAuthReply(err error) bool {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return tpErr.Code == 534 || tpErr.Code == 535
	}
	return false
}
