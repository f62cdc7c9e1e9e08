package config

import "time"

// RunnerConfig contains job runner configuration.
type RunnerConfig struct {
	// PollInterval is how long the runner sleeps when the queue is empty.
	PollInterval time.Duration `env:"RUNNER_POLL_INTERVAL" envDefault:"5s"`

	// ProgressTTL is the retention of per-job progress snapshots in Redis.
	ProgressTTL time.Duration `env:"RUNNER_PROGRESS_TTL" envDefault:"24h"`

	// PublishEvery is the stride, in lines, between progress publications.
	PublishEvery int `env:"RUNNER_PUBLISH_EVERY" envDefault:"10"`
}

// Sanitize applies guardrails to runner configuration values.
func (c *RunnerConfig) Sanitize() {
	if c.PollInterval < time.Second {
		c.PollInterval = time.Second
	}
	if c.ProgressTTL <= 0 {
		c.ProgressTTL = 24 * time.Hour
	}
	if c.PublishEvery <= 0 {
		c.PublishEvery = 10
	}
}
