// Package jobrunner polls for queued bulk jobs and dispatches each one to
// the worker registered for its type.
package jobrunner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/service"
)

const defaultPollInterval = 5 * time.Second

// ActionNames maps each job type to the action name recorded in its
// progress snapshots.
var ActionNames = map[model.BulkJobType]string{
	model.BulkJobTypeRegister:     "register_students",
	model.BulkJobTypeUnregister:   "unregister_students",
	model.BulkJobTypeMask:         "mask_personal_data",
	model.BulkJobTypeCustomFields: "update_custom_fields",
	model.BulkJobTypeReminder:     "send_reminder_mail",
}

// Options configures the job runner adapter.
type Options struct {
	Jobs     core.BulkJobRepository                // Required: job queue source
	Executor *service.Runner                       // Required: lifecycle orchestrator
	Workers  map[model.BulkJobType]core.LineWorker // Required: one worker per handled type
	Interval time.Duration                         // Optional: poll interval, default 5s
	Logger   *slog.Logger                          // Optional
}

// Runner drains the queue one job at a time. Jobs run strictly
// sequentially; the dedup key already keeps at most one live job per type
// and contract, and line-level progress makes long jobs resumable.
type Runner struct {
	jobs     core.BulkJobRepository
	executor *service.Runner
	workers  map[model.BulkJobType]core.LineWorker
	interval time.Duration
	logger   *slog.Logger
}

// NewRunner constructs a new Runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Jobs == nil {
		return nil, errors.New("BulkJobRepository is required")
	}
	if opts.Executor == nil {
		return nil, errors.New("executor is required")
	}
	if len(opts.Workers) == 0 {
		return nil, errors.New("at least one worker is required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		jobs:     opts.Jobs,
		executor: opts.Executor,
		workers:  opts.Workers,
		interval: interval,
		logger:   logger.With("component", "job_runner"),
	}, nil
}

// Run polls for queued jobs until the context is cancelled. When the queue
// is empty it sleeps for the poll interval; after finishing a job it polls
// again immediately.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting job runner", "interval", r.interval)
	for {
		processed, err := r.RunOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			r.logger.ErrorContext(ctx, "job dispatch failed", "error", err)
		}
		if processed {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}
}

// RunOnce dispatches at most one queued job. It reports whether a job was
// picked up; execution failures are recorded against the job itself and do
// not stop the runner.
func (r *Runner) RunOnce(ctx context.Context) (bool, error) {
	job, err := r.jobs.NextQueued(ctx)
	if err != nil {
		return false, fmt.Errorf("next queued: %w", err)
	}
	if job == nil {
		return false, nil
	}

	worker, ok := r.workers[job.Type]
	if !ok {
		// Fail the job so it does not clog the head of the queue.
		failure := model.Failure{
			ErrorType: "UnsupportedJobType",
			Message:   fmt.Sprintf("no worker registered for job type %s", job.Type),
		}
		if ferr := r.jobs.Fail(ctx, job.ID, failure.MarshalOutput()); ferr != nil {
			r.logger.ErrorContext(ctx, "fail unsupported job", "job_id", job.ID, "error", ferr)
		}
		return true, fmt.Errorf("no worker registered for job type %s", job.Type)
	}

	r.logger.InfoContext(ctx, "dispatching job", "job_id", job.ID, "type", string(job.Type))
	_, err = r.executor.Execute(ctx, service.ExecuteParams{
		JobID:        job.ID,
		RuntimeJobID: job.ID,
		Worker:       worker,
		ActionName:   ActionNames[job.Type],
	})
	if err != nil {
		r.logger.WarnContext(ctx, "job finished with failure", "job_id", job.ID, "error", err)
	} else {
		r.logger.InfoContext(ctx, "job finished", "job_id", job.ID)
	}
	return true, nil
}
