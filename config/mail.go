package config

import "time"

// MailConfig contains outbound SMTP configuration. When Addr is empty the
// application runs without a mailer; registration jobs then skip welcome
// mail and reminder jobs are rejected at submission.
type MailConfig struct {
	Addr     string        `env:"ADDR"     envDefault:""`
	From     string        `env:"FROM"     envDefault:"noreply@example.com"`
	Username string        `env:"USERNAME" envDefault:""`
	Password string        `env:"PASSWORD" envDefault:""`
	Timeout  time.Duration `env:"TIMEOUT"  envDefault:"30s"`
}

// Enabled reports whether an SMTP endpoint is configured.
func (c MailConfig) Enabled() bool {
	return c.Addr != ""
}

// Sanitize applies guardrails to mail configuration values.
func (c *MailConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}
