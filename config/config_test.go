package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "Asia/Tokyo", cfg.Batch.Timezone)
	assert.Equal(t, 5*time.Second, cfg.Runner.PollInterval)
	assert.Equal(t, 24*time.Hour, cfg.Runner.ProgressTTL)
	assert.False(t, cfg.Mail.Enabled())
}

func TestAppConfigFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("MAIL_ADDR", "smtp.internal:587")
	t.Setenv("BATCH_TIMEZONE", "UTC")
	t.Setenv("RUNNER_POLL_INTERVAL", "250ms")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, "UTC", cfg.Batch.Timezone)
	// guardrail: poll interval never drops below one second
	assert.Equal(t, time.Second, cfg.Runner.PollInterval)
}

func TestBatchFieldMapsParse(t *testing.T) {
	t.Setenv("BATCH_SCORE_FIELDS", "score:score,best:attempts[-1].score")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "attempts[-1].score", cfg.Batch.ScoreFields["best"])
}
