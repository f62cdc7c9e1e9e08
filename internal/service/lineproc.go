package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/msgcat"
	"github.com/classtools/rosterjobs/internal/progress"
)

// InputError marks a fatal declared-input problem (missing key, undecodable
// payload, stale contract revision). It aborts the whole job before any line
// is touched.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e *InputError) Unwrap() error { return e.Err }

// NewInputError wraps err as a fatal input error.
func NewInputError(err error) error {
	if err == nil {
		return nil
	}
	return &InputError{Err: err}
}

// LineOutcome classifies one processed line.
type LineOutcome int

const (
	// LineSuccess means the line's side effect was applied.
	LineSuccess LineOutcome = iota
	// LineSkip means the line needed no work (blank input, already in the
	// desired end state).
	LineSkip
	// LineFail means a validation or business rule rejected the line.
	LineFail
)

// LineResult is the classified outcome of one line, with the operator-facing
// message (empty for nothing-to-report lines).
type LineResult struct {
	Outcome LineOutcome
	Message string
}

// Succeed returns a success result with no message.
func Succeed() LineResult { return LineResult{Outcome: LineSuccess} }

// SkipWith returns a skip result with the given message.
func SkipWith(msg string) LineResult { return LineResult{Outcome: LineSkip, Message: msg} }

// FailWith returns a failure result with the given message.
func FailWith(msg string) LineResult { return LineResult{Outcome: LineFail, Message: msg} }

// LineFunc processes one non-blank line inside its per-line transaction. A
// returned error is an unexpected failure: the transaction is rolled back,
// the line is counted failed with a generic retry-later message, and the
// loop continues.
type LineFunc func(ctx context.Context, tx *sql.Tx, target *model.LineTarget) (LineResult, error)

// errLineRejected aborts the per-line transaction when a line classified as
// failed must roll back writes it already made (e.g. an insert that hit a
// uniqueness constraint).
var errLineRejected = errors.New("line rejected")

// defaultPublishEvery is how many lines pass between progress publications.
const defaultPublishEvery = 10

// LineProcessorOptions groups dependencies for LineProcessor.
type LineProcessorOptions struct {
	Targets      core.LineTargetRepository // Required: line target repository
	Tx           core.Transactor           // Required: per-line transaction runner
	Progress     core.ProgressPublisher    // Optional: external progress store
	Logger       *slog.Logger              // Optional: structured logger
	PublishEvery int                       // Optional: snapshot publish stride
}

// LineProcessor drives the shared per-line loop every bulk operation is
// built on: fetch targets in creation order, open one transaction per line,
// classify the outcome, record it on the target, and keep going. A single
// bad line never aborts the batch.
type LineProcessor struct {
	targets      core.LineTargetRepository
	tx           core.Transactor
	progress     core.ProgressPublisher
	logger       *slog.Logger
	publishEvery int
}

// NewLineProcessor constructs a new LineProcessor.
func NewLineProcessor(opts LineProcessorOptions) (*LineProcessor, error) {
	if opts.Targets == nil {
		return nil, errors.New("LineTargetRepository is required")
	}
	if opts.Tx == nil {
		return nil, errors.New("Transactor is required")
	}
	stride := opts.PublishEvery
	if stride <= 0 {
		stride = defaultPublishEvery
	}

	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "line_processor")
	}

	return &LineProcessor{
		targets:      opts.Targets,
		tx:           opts.Tx,
		progress:     opts.Progress,
		logger:       logger,
		publishEvery: stride,
	}, nil
}

// ProcessParams groups the per-job inputs of one Process call.
type ProcessParams struct {
	Job        *model.BulkJob
	ActionName string
	Messages   *msgcat.Formatter
	Fn         LineFunc
}

// Process runs the loop and returns the final progress snapshot. Lines are
// processed sequentially in stored creation order; the published snapshot
// sequence is monotonically non-decreasing in attempted.
func (p *LineProcessor) Process(ctx context.Context, params ProcessParams) (model.Snapshot, error) {
	if params.Job == nil {
		return model.Snapshot{}, errors.New("job is required")
	}
	messages := params.Messages
	if messages == nil {
		messages = msgcat.New(msgcat.DefaultLocale)
	}

	targets, err := p.targets.ListByJob(ctx, params.Job.ID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("list line targets: %w", err)
	}

	tracker := progress.NewTracker(params.ActionName, len(targets))
	p.publish(ctx, params.Job.ID, tracker.Snapshot(nil))

	for _, target := range targets {
		tracker.Attempt()
		p.processOne(ctx, processOneParams{
			target:   target,
			messages: messages,
			tracker:  tracker,
			fn:       params.Fn,
		})
		if tracker.Attempted()%p.publishEvery == 0 {
			p.publish(ctx, params.Job.ID, tracker.Snapshot(nil))
		}
	}

	final := tracker.Snapshot(nil)
	p.publish(ctx, params.Job.ID, final)
	return final, nil
}

type processOneParams struct {
	target   *model.LineTarget
	messages *msgcat.Formatter
	tracker  *progress.Tracker
	fn       LineFunc
}

// processOne decides one line: blank lines are skipped without calling the
// operation, everything else runs inside its own transaction. An unexpected
// error (including a panic) is logged with full detail server-side, counted
// failed, and surfaced to the line only as a generic retry-later message.
// The target stays incomplete so a requeued job retries it.
func (p *LineProcessor) processOne(ctx context.Context, params processOneParams) {
	target := params.target

	// Lines resolved by an earlier run keep their outcome; a requeued job
	// only retries targets left incomplete.
	if target.Completed {
		params.tracker.Skip()
		return
	}

	var res LineResult
	var lineErr error
	if strings.TrimSpace(target.RawInput) == "" {
		res = SkipWith("")
	} else {
		res, lineErr = p.runLine(ctx, params.fn, target)
	}

	if lineErr != nil {
		params.tracker.Fail()
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "unexpected line failure",
				"job_id", target.JobID, "line_no", target.LineNo, "error", lineErr)
		}
		retry := params.messages.Line(target.LineNo, params.messages.Format(msgcat.KeyRetryLater))
		if msgErr := p.targets.SetMessage(ctx, target.ID, retry); msgErr != nil && p.logger != nil {
			p.logger.ErrorContext(ctx, "record line message failed",
				"job_id", target.JobID, "line_no", target.LineNo, "error", msgErr)
		}
		return
	}

	switch res.Outcome {
	case LineSuccess:
		params.tracker.Success()
	case LineSkip:
		params.tracker.Skip()
	case LineFail:
		params.tracker.Fail()
	}

	var message *string
	if res.Message != "" {
		formatted := params.messages.Line(target.LineNo, res.Message)
		message = &formatted
	}
	if resolveErr := p.targets.Resolve(ctx, target.ID, message); resolveErr != nil && p.logger != nil {
		p.logger.ErrorContext(ctx, "resolve line target failed",
			"job_id", target.JobID, "line_no", target.LineNo, "error", resolveErr)
	}
}

// runLine executes fn inside a per-line transaction with panic isolation.
// A LineFail result rolls the transaction back so a rejected line leaves no
// writes behind.
func (p *LineProcessor) runLine(
	ctx context.Context,
	fn LineFunc,
	target *model.LineTarget,
) (res LineResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("line panic: %v", rec)
		}
	}()

	txErr := p.tx.InTx(ctx, func(tx *sql.Tx) error {
		r, fnErr := fn(ctx, tx, target)
		if fnErr != nil {
			return fnErr
		}
		res = r
		if r.Outcome == LineFail {
			return errLineRejected
		}
		return nil
	})
	if txErr != nil && !errors.Is(txErr, errLineRejected) {
		return LineResult{}, txErr
	}
	return res, nil
}

func (p *LineProcessor) publish(ctx context.Context, jobID string, snap model.Snapshot) {
	if p.progress == nil {
		return
	}
	if err := p.progress.Publish(ctx, jobID, snap); err != nil && p.logger != nil {
		p.logger.WarnContext(ctx, "publish progress failed", "id", jobID, "error", err)
	}
}

// marshalSnapshot serializes a snapshot for persistence as job output.
func marshalSnapshot(snap model.Snapshot) (json.RawMessage, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

// isNotFound reports whether err is the roster's missing-student sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, data.ErrStudentNotFound)
}

// resolveContract loads the job's contract and verifies the revision the
// submitting form displayed still matches, guarding against stale form
// submissions referencing an updated contract. Both failure modes are fatal
// to the job.
func resolveContract(
	ctx context.Context,
	roster core.RosterRepository,
	in *model.JobInput,
) (*model.Contract, error) {
	contract, err := roster.GetContract(ctx, in.ContractID)
	if err != nil {
		return nil, NewInputError(fmt.Errorf("resolve contract %d: %w", in.ContractID, err))
	}
	if in.ContractRev != 0 && contract.Revision != in.ContractRev {
		return nil, NewInputError(fmt.Errorf("%w: contract %d is at revision %d, job expected %d",
			ErrContractRevisionMismatch, contract.ID, contract.Revision, in.ContractRev))
	}
	return contract, nil
}
