// Package mail provides the SMTP implementation of the outbound-mail ports.
// A worker opens one session per job and sends every line's mail over it.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/classtools/rosterjobs/internal/core"
)

// Config holds SMTP connection settings.
type Config struct {
	Addr     string // host:port
	From     string
	Username string // empty disables AUTH
	Password string
	Timeout  time.Duration
}

// SMTPMailer opens job-scoped SMTP sessions.
type SMTPMailer struct {
	cfg    Config
	logger *slog.Logger
}

// NewSMTPMailer constructs a new SMTPMailer.
func NewSMTPMailer(cfg Config, logger *slog.Logger) (*SMTPMailer, error) {
	if cfg.Addr == "" {
		return nil, errors.New("smtp address is required")
	}
	if cfg.From == "" {
		return nil, errors.New("smtp sender address is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger != nil {
		logger = logger.With("component", "smtp_mailer")
	}
	return &SMTPMailer{cfg: cfg, logger: logger}, nil
}

// Open dials the server and negotiates STARTTLS and AUTH when offered. The
// returned session holds one SMTP connection for the life of the job.
func (m *SMTPMailer) Open(ctx context.Context) (core.MailSession, error) {
	type dialResult struct {
		client *smtp.Client
		err    error
	}
	ch := make(chan dialResult, 1)
	go func() {
		c, err := smtp.Dial(m.cfg.Addr)
		ch <- dialResult{client: c, err: err}
	}()

	var client *smtp.Client
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(m.cfg.Timeout):
		return nil, fmt.Errorf("dial %s: timeout after %s", m.cfg.Addr, m.cfg.Timeout)
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("dial %s: %w", m.cfg.Addr, r.err)
		}
		client = r.client
	}

	host := m.cfg.Addr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			client.Close()
			return nil, fmt.Errorf("starttls with %s: %w", host, err)
		}
	}
	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("smtp auth: %w", err)
		}
	}
	return &Session{client: client, from: m.cfg.From, logger: m.logger}, nil
}

// Session is one open SMTP connection.
type Session struct {
	client *smtp.Client
	from   string
	closed bool
	logger *slog.Logger
}

// Send delivers one plain-text mail over the open connection.
func (s *Session) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return errors.New("mail session is closed")
	}
	if err := s.client.Mail(s.from); err != nil {
		return fmt.Errorf("mail from %s: %w", s.from, err)
	}
	if err := s.client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to %s: %w", to, err)
	}
	w, err := s.client.Data()
	if err != nil {
		return fmt.Errorf("open data: %w", err)
	}
	if _, err := fmt.Fprint(w, buildMessage(s.from, to, subject, body)); err != nil {
		w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "mail sent", "to", to)
	}
	return nil
}

// Close sends QUIT and closes the connection. Safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.client.Quit(); err != nil {
		return s.client.Close()
	}
	return nil
}

// buildMessage assembles an RFC 5322 message with a UTF-8 subject and body.
func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.String()
}
