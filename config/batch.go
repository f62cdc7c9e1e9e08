package config

// BatchConfig contains configuration for the nightly aggregations.
type BatchConfig struct {
	// Timezone is the IANA name of the reference timezone that defines the
	// calendar day of the run-once-per-day guard.
	Timezone string `env:"BATCH_TIMEZONE" envDefault:"Asia/Tokyo"`

	// ScoreFields maps report field names to the JMESPath expression that
	// extracts them from a raw score document payload.
	ScoreFields map[string]string `env:"BATCH_SCORE_FIELDS" envDefault:"score:score,max_score:max_score,completed:completed"`

	// PlaybackFields maps report field names to the JMESPath expression that
	// extracts them from a raw playback document payload.
	PlaybackFields map[string]string `env:"BATCH_PLAYBACK_FIELDS" envDefault:"played_seconds:played_seconds,last_position:last_position"`
}

// Sanitize applies guardrails to batch configuration values.
func (c *BatchConfig) Sanitize() {
	if c.Timezone == "" {
		c.Timezone = "Asia/Tokyo"
	}
}
