// Package redisprogress publishes job progress snapshots to Redis, where the
// execution runtime and the admin tooling read them.
package redisprogress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/classtools/rosterjobs/internal/domain/model"
)

const defaultTTL = 24 * time.Hour

// Publisher writes the latest snapshot of each job under
// "job:progress:<job id>". Only the newest snapshot is kept; each write
// refreshes the TTL so finished jobs age out on their own.
type Publisher struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// Options configures NewPublisher.
type Options struct {
	Client redis.UniversalClient // Required
	TTL    time.Duration         // Optional: snapshot retention, default 24h
	Logger *slog.Logger          // Optional
}

// NewPublisher constructs a new Publisher.
func NewPublisher(opts Options) (*Publisher, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}
	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "progress_publisher")
	}
	return &Publisher{client: opts.Client, ttl: ttl, logger: logger}, nil
}

// Publish stores the snapshot. Errors are returned for the caller to log;
// progress publication is best effort and must never abort a job.
func (p *Publisher) Publish(ctx context.Context, jobID string, snap model.Snapshot) error {
	if jobID == "" {
		return errors.New("job id cannot be empty")
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := p.client.Set(ctx, Key(jobID), payload, p.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	if p.logger != nil {
		p.logger.DebugContext(ctx, "progress published",
			"job_id", jobID, "attempted", snap.Attempted, "total", snap.Total)
	}
	return nil
}

// Latest reads the most recent snapshot for a job, or nil when none is
// stored (never published, or aged out).
func (p *Publisher) Latest(ctx context.Context, jobID string) (*model.Snapshot, error) {
	raw, err := p.client.Get(ctx, Key(jobID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Key returns the Redis key holding a job's latest snapshot.
func Key(jobID string) string {
	return "job:progress:" + jobID
}
