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

// MaskWorkerOptions groups dependencies for MaskWorker.
type MaskWorkerOptions struct {
	Roster    core.RosterRepository // Required: roster repository
	Processor *LineProcessor        // Required: shared line loop
	Logger    *slog.Logger          // Optional: structured logger
}

// MaskWorker overwrites students' personal data with placeholders, one
// student ID per line. An already-masked student is a skip; masking your own
// account is rejected.
type MaskWorker struct {
	roster core.RosterRepository
	proc   *LineProcessor
	logger *slog.Logger
}

var _ core.LineWorker = (*MaskWorker)(nil)

// NewMaskWorker constructs a new MaskWorker.
func NewMaskWorker(opts MaskWorkerOptions) (*MaskWorker, error) {
	if opts.Roster == nil {
		return nil, errors.New("RosterRepository is required")
	}
	if opts.Processor == nil {
		return nil, errors.New("LineProcessor is required")
	}
	return &MaskWorker{
		roster: opts.Roster,
		proc:   opts.Processor,
		logger: opts.Logger,
	}, nil
}

// Run implements core.LineWorker.
func (w *MaskWorker) Run(
	ctx context.Context,
	job *model.BulkJob,
	actionName string,
) (model.Snapshot, error) {
	var in model.MaskInput
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

			student, getErr := w.roster.GetStudent(ctx, contract.ID, studentID)
			if getErr != nil {
				if isNotFound(getErr) {
					return FailWith(messages.Format(msgcat.KeyStudentNotFound)), nil
				}
				return LineResult{}, getErr
			}
			if student.Masked {
				return SkipWith(messages.Format(msgcat.KeyAlreadyDone)), nil
			}

			changed, maskErr := w.roster.MaskInTx(ctx, tx, contract.ID, studentID)
			if maskErr != nil {
				return LineResult{}, maskErr
			}
			if !changed {
				return SkipWith(messages.Format(msgcat.KeyAlreadyDone)), nil
			}
			return Succeed(), nil
		},
	})
}
