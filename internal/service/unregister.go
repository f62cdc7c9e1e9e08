package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/msgcat"
)

// UnregisterWorkerOptions groups dependencies for UnregisterWorker.
type UnregisterWorkerOptions struct {
	Roster    core.RosterRepository // Required: roster repository
	Processor *LineProcessor        // Required: shared line loop
	Logger    *slog.Logger          // Optional: structured logger
}

// UnregisterWorker removes students from the roster, one student ID per
// line. A student already unregistered is a skip, not an error, and an
// operator cannot unregister their own account.
type UnregisterWorker struct {
	roster core.RosterRepository
	proc   *LineProcessor
	logger *slog.Logger
}

var _ core.LineWorker = (*UnregisterWorker)(nil)

// NewUnregisterWorker constructs a new UnregisterWorker.
func NewUnregisterWorker(opts UnregisterWorkerOptions) (*UnregisterWorker, error) {
	if opts.Roster == nil {
		return nil, errors.New("RosterRepository is required")
	}
	if opts.Processor == nil {
		return nil, errors.New("LineProcessor is required")
	}
	return &UnregisterWorker{
		roster: opts.Roster,
		proc:   opts.Processor,
		logger: opts.Logger,
	}, nil
}

// Run implements core.LineWorker.
func (w *UnregisterWorker) Run(
	ctx context.Context,
	job *model.BulkJob,
	actionName string,
) (model.Snapshot, error) {
	var in model.UnregistrationInput
	if err := model.DecodeInput(job.Input, &in); err != nil {
		return model.Snapshot{}, NewInputError(err)
	}

	contract, err := resolveContract(ctx, w.roster, &in.JobInput)
	if err != nil {
		return model.Snapshot{}, err
	}

	messages := msgcat.New(in.Locale)

	return w.proc.Process(ctx, ProcessParams{
		Job:        job,
		ActionName: actionName,
		Messages:   messages,
		Fn: func(ctx context.Context, tx *sql.Tx, target *model.LineTarget) (LineResult, error) {
			studentID := target.RawInput
			if _, parseErr := uuid.Parse(studentID); parseErr != nil {
				return FailWith(messages.Format(msgcat.KeyInvalidStudentID)), nil
			}
			if studentID == in.OperatorID {
				return FailWith(messages.Format(msgcat.KeyActingOnSelf)), nil
			}

			changed, unregErr := w.roster.UnregisterInTx(ctx, tx, contract.ID, studentID)
			if unregErr != nil {
				return LineResult{}, unregErr
			}
			if !changed {
				// Already unregistered, or not on this contract's roster.
				exists, getErr := w.studentExists(ctx, contract.ID, studentID)
				if getErr != nil {
					return LineResult{}, getErr
				}
				if !exists {
					return FailWith(messages.Format(msgcat.KeyStudentNotFound)), nil
				}
				return SkipWith(messages.Format(msgcat.KeyAlreadyDone)), nil
			}
			return Succeed(), nil
		},
	})
}

func (w *UnregisterWorker) studentExists(ctx context.Context, contractID int64, studentID string) (bool, error) {
	_, err := w.roster.GetStudent(ctx, contractID, studentID)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}
