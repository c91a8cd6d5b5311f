package notifier

import (
	"context"
	"crypto/tls"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	config "github.com/bookly-labs/bookly/internal/config/email-notifier"
	"github.com/bookly-labs/bookly/internal/domain/mail"
)

var _ mail.Sender = (*Mailer)(nil)

// Mailer delivers a single message over SMTP. Bodies are HTML because every
// transactional template in the service renders links.
type Mailer struct {
	addr    string
	auth    smtp.Auth
	useTLS  bool
	timeout time.Duration
	from    string

	log *zap.Logger
}

func NewMailer(cfg config.SMTP, log *zap.Logger) *Mailer {
	var auth smtp.Auth
	if cfg.User != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, host(cfg.Addr))
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailer{
		addr:    cfg.Addr,
		auth:    auth,
		useTLS:  cfg.UseTLS,
		timeout: cfg.Timeout,
		from:    cfg.From,
		log:     log.With(zap.String("component", "notifier.mailer")),
	}
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	msg := []byte(
		"From: " + m.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=utf-8\r\n" +
			"\r\n" + body + "\r\n")

	start := time.Now()
	log := m.log.With(
		zap.String("smtp_addr", m.addr),
		zap.Bool("tls", m.useTLS),
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if m.useTLS {
		if err := m.sendTLS(to, msg); err != nil {
			log.Error("smtp send failed", zap.Error(err))
			return err
		}
		log.Info("email sent", zap.Duration("elapsed", time.Since(start)))
		return nil
	}

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		log.Error("smtp send failed", zap.Error(err))
		return err
	}
	log.Info("email sent", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (m *Mailer) sendTLS(to string, msg []byte) error {
	dialer := net.Dialer{Timeout: m.timeout}
	conn, err := tls.DialWithDialer(&dialer, "tcp", m.addr, &tls.Config{ServerName: host(m.addr)})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, host(m.addr))
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if m.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(m.auth); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func host(addr string) string {
	if h, _, err := net.SplitHostPort(addr); err == nil {
		return h
	}
	return strings.TrimSpace(addr)
}
