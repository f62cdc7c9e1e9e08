package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
)

// DailyStatusOptions groups dependencies for DailyStatusService.
type DailyStatusOptions struct {
	Repo         core.BatchStatusRepository // Required: status log repository
	Location     *time.Location             // Optional: reference timezone, defaults to Asia/Tokyo
	TimeProvider data.TimeProvider          // Optional: clock override for tests
	Logger       *slog.Logger               // Optional: structured logger
}

// DailyStatusService is the daily batch status guard. It answers two
// questions over the append-only status log, "did this batch already run
// today?" and "did the upstream batch finish successfully today?", and owns
// the only three writers: Started, Finished, Error.
//
// "Today" is the calendar day in the configured reference timezone, not the
// server's. The log being append-only makes the queries race-tolerant: a
// concurrent second run appends its own row rather than corrupting the
// first.
type DailyStatusService struct {
	repo     core.BatchStatusRepository
	location *time.Location
	clock    data.TimeProvider
	logger   *slog.Logger
}

// NewDailyStatusService constructs a new DailyStatusService.
func NewDailyStatusService(opts DailyStatusOptions) (*DailyStatusService, error) {
	if opts.Repo == nil {
		return nil, errors.New("BatchStatusRepository is required")
	}

	loc := opts.Location
	if loc == nil {
		var err error
		loc, err = time.LoadLocation("Asia/Tokyo")
		if err != nil {
			return nil, fmt.Errorf("load reference timezone: %w", err)
		}
	}

	clock := opts.TimeProvider
	if clock == nil {
		clock = &data.RealTimeProvider{}
	}

	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "daily_status_guard")
	}

	return &DailyStatusService{
		repo:     opts.Repo,
		location: loc,
		clock:    clock,
		logger:   logger,
	}, nil
}

// todayWindow returns [start of today, start of tomorrow) in the reference
// timezone.
func (s *DailyStatusService) todayWindow() (time.Time, time.Time) {
	now := s.clock.Now().In(s.location)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	return from, from.AddDate(0, 0, 1)
}

// Today returns the start of today's window, the report date of any rows
// written now.
func (s *DailyStatusService) Today() time.Time {
	from, _ := s.todayWindow()
	return from
}

// ExistsToday reports whether any status row for the key was written today,
// regardless of its state. Nightly jobs use it to skip a rerun unless
// forced.
func (s *DailyStatusService) ExistsToday(ctx context.Context, key model.BatchKey) (bool, error) {
	from, to := s.todayWindow()
	exists, err := s.repo.ExistsInWindow(ctx, key, from, to)
	if err != nil {
		return false, fmt.Errorf("batch status exists today: %w", err)
	}
	return exists, nil
}

// FinishedToday reports whether the most recent status row for the key
// today is Finished. A later Started or Error row from a newer run makes it
// false again; downstream jobs must then fail fast rather than proceed with
// stale or partial upstream data.
func (s *DailyStatusService) FinishedToday(ctx context.Context, key model.BatchKey) (bool, error) {
	from, to := s.todayWindow()
	latest, err := s.repo.MostRecentInWindow(ctx, key, from, to)
	if err != nil {
		return false, fmt.Errorf("batch status finished today: %w", err)
	}
	return latest != nil && latest.State == model.BatchStateFinished, nil
}

// ListToday returns every status row written today, across all keys.
func (s *DailyStatusService) ListToday(ctx context.Context) ([]*model.BatchStatus, error) {
	from, to := s.todayWindow()
	rows, err := s.repo.ListInWindow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list batch statuses today: %w", err)
	}
	return rows, nil
}

// SaveStarted appends a Started row for the key. Counts are null while
// Started.
func (s *DailyStatusService) SaveStarted(ctx context.Context, key model.BatchKey) error {
	return s.append(ctx, key, model.BatchStateStarted, model.BatchCounts{})
}

// SaveFinished appends a Finished row with the run's counts.
func (s *DailyStatusService) SaveFinished(
	ctx context.Context,
	key model.BatchKey,
	counts model.BatchCounts,
) error {
	return s.append(ctx, key, model.BatchStateFinished, counts)
}

// SaveError appends an Error row, preserving whatever counts the run
// reached before failing (null when it never got that far).
func (s *DailyStatusService) SaveError(
	ctx context.Context,
	key model.BatchKey,
	counts model.BatchCounts,
) error {
	return s.append(ctx, key, model.BatchStateError, counts)
}

func (s *DailyStatusService) append(
	ctx context.Context,
	key model.BatchKey,
	state model.BatchState,
	counts model.BatchCounts,
) error {
	row := &model.BatchStatus{
		Type:         key.Type,
		ContractID:   key.ContractID,
		CourseID:     key.CourseID,
		State:        state,
		Processed:    counts.Processed,
		SuccessCount: counts.SuccessCount,
		FailureCount: counts.FailureCount,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.repo.Append(ctx, row); err != nil {
		return fmt.Errorf("append %s status for %s: %w", state, key, err)
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "batch status appended",
			"key", key.String(), "state", state)
	}
	return nil
}
