package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
)

// RunnerOptions groups dependencies for Runner.
type RunnerOptions struct {
	Jobs     core.BulkJobRepository // Required: bulk job repository
	Progress core.ProgressPublisher // Optional: external progress store
	Logger   *slog.Logger           // Optional: structured logger
}

// Runner is the execution orchestrator. It owns the job record for the
// duration of one execution: it transitions the record to InProgress, hands
// control to the operation's LineWorker, and persists either the final
// progress snapshot or the failure descriptor. It is the single place where
// an escaping worker error becomes observable.
type Runner struct {
	jobs     core.BulkJobRepository
	progress core.ProgressPublisher
	logger   *slog.Logger
}

// NewRunner constructs a new Runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Jobs == nil {
		return nil, errors.New("BulkJobRepository is required")
	}

	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "job_runner")
	}

	return &Runner{
		jobs:     opts.Jobs,
		progress: opts.Progress,
		logger:   logger,
	}, nil
}

// MustNewRunner constructs a new Runner and panics on error. Use this when
// the options are known valid (e.g. in main).
func MustNewRunner(opts RunnerOptions) *Runner {
	r, err := NewRunner(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create Runner: %v", err))
	}
	return r
}

// ExecuteParams groups the inputs of one job execution.
type ExecuteParams struct {
	// JobID is the job record to execute.
	JobID string
	// RuntimeJobID is the job ID the execution runtime reported for this
	// run (the ID taken from the queue envelope). It must match the loaded
	// record's ID.
	RuntimeJobID string
	// Worker is the operation's line worker.
	Worker core.LineWorker
	// ActionName labels progress snapshots.
	ActionName string
}

// Execute runs one job to completion.
//
// A missing job record is a caller bug and propagates without touching any
// state. Every other error, including a worker panic, is captured into the
// job's output as a bounded failure descriptor, and the job is marked
// Failure. On success the worker's final snapshot becomes the job's output.
//
// The returned snapshot mirrors what was persisted; asynchronous callers
// normally discard it.
func (r *Runner) Execute(ctx context.Context, p ExecuteParams) (model.Snapshot, error) {
	job, err := r.jobs.GetByID(ctx, p.JobID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("load job %s: %w", p.JobID, err)
	}

	if markErr := r.jobs.MarkInProgress(ctx, job.ID); markErr != nil {
		return model.Snapshot{}, fmt.Errorf("mark job in progress: %w", markErr)
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "job execution started",
			"id", job.ID, "type", job.Type, "action", p.ActionName)
	}

	if job.ID != p.RuntimeJobID {
		mismatch := fmt.Errorf("%w: record %s, runtime %s",
			ErrIdentityMismatch, job.ID, p.RuntimeJobID)
		r.persistFailure(ctx, job.ID, mismatch, nil)
		return model.Snapshot{}, mismatch
	}

	snap, trace, workerErr := r.runWorker(ctx, p.Worker, job, p.ActionName)
	if workerErr != nil {
		r.persistFailure(ctx, job.ID, workerErr, trace)
		return model.Snapshot{}, workerErr
	}

	output, marshalErr := marshalSnapshot(snap)
	if marshalErr != nil {
		r.persistFailure(ctx, job.ID, marshalErr, nil)
		return model.Snapshot{}, marshalErr
	}
	if completeErr := r.jobs.Complete(ctx, job.ID, output); completeErr != nil {
		return model.Snapshot{}, fmt.Errorf("complete job: %w", completeErr)
	}

	r.publish(ctx, job.ID, snap)

	if r.logger != nil {
		r.logger.InfoContext(ctx, "job execution finished",
			"id", job.ID,
			"attempted", snap.Attempted,
			"succeeded", snap.Succeeded,
			"skipped", snap.Skipped,
			"failed", snap.Failed)
	}
	return snap, nil
}

// runWorker invokes the worker, converting a panic into an error plus its
// truncatable stack trace.
func (r *Runner) runWorker(
	ctx context.Context,
	worker core.LineWorker,
	job *model.BulkJob,
	actionName string,
) (snap model.Snapshot, trace []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			trace = debug.Stack()
			err = fmt.Errorf("worker panic: %v", rec)
		}
	}()
	if worker == nil {
		return model.Snapshot{}, nil, fmt.Errorf("no worker registered for job type %q", job.Type)
	}
	snap, err = worker.Run(ctx, job, actionName)
	return snap, nil, err
}

// persistFailure writes the bounded failure descriptor to the job record.
// A persistence error here is logged, not returned: the original failure is
// the one the caller must see.
func (r *Runner) persistFailure(ctx context.Context, jobID string, cause error, trace []byte) {
	failure := model.Failure{
		ErrorType: classifyError(cause),
		Message:   cause.Error(),
		Trace:     string(trace),
	}
	if failErr := r.jobs.Fail(ctx, jobID, failure.MarshalOutput()); failErr != nil && r.logger != nil {
		r.logger.ErrorContext(ctx, "persist job failure state failed",
			"id", jobID, "error", failErr, "cause", cause)
	}
	if r.logger != nil {
		r.logger.ErrorContext(ctx, "job execution failed",
			"id", jobID, "error_type", failure.ErrorType, "error", cause)
	}
}

func (r *Runner) publish(ctx context.Context, jobID string, snap model.Snapshot) {
	if r.progress == nil {
		return
	}
	if err := r.progress.Publish(ctx, jobID, snap); err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "publish progress failed", "id", jobID, "error", err)
	}
}

// classifyError maps known fatal errors to stable descriptor type names so
// polling clients can distinguish them without parsing messages.
func classifyError(err error) string {
	switch {
	case errors.Is(err, ErrIdentityMismatch):
		return "IdentityMismatch"
	case errors.Is(err, ErrContractRevisionMismatch):
		return "ContractRevisionMismatch"
	case errors.Is(err, ErrUpstreamNotFinished):
		return "UpstreamNotFinished"
	case errors.Is(err, data.ErrJobNotFound):
		return "JobNotFound"
	case errors.Is(err, data.ErrContractNotFound):
		return "ContractNotFound"
	}
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return "ValidationError"
	}
	return "RuntimeError"
}
