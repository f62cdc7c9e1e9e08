package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/msgcat"
)

const customFieldColumns = 3

// CustomFieldsWorkerOptions groups dependencies for CustomFieldsWorker.
type CustomFieldsWorkerOptions struct {
	Roster    core.RosterRepository // Required: roster repository
	Processor *LineProcessor        // Required: shared line loop
	Logger    *slog.Logger          // Optional: structured logger
}

// CustomFieldsWorker updates per-student custom field values from CSV lines
// of the form "external_id,field,value". A field name the contract does not
// define is a per-line failure.
type CustomFieldsWorker struct {
	roster core.RosterRepository
	proc   *LineProcessor
	logger *slog.Logger
}

var _ core.LineWorker = (*CustomFieldsWorker)(nil)

// NewCustomFieldsWorker constructs a new CustomFieldsWorker.
func NewCustomFieldsWorker(opts CustomFieldsWorkerOptions) (*CustomFieldsWorker, error) {
	if opts.Roster == nil {
		return nil, errors.New("RosterRepository is required")
	}
	if opts.Processor == nil {
		return nil, errors.New("LineProcessor is required")
	}
	return &CustomFieldsWorker{
		roster: opts.Roster,
		proc:   opts.Processor,
		logger: opts.Logger,
	}, nil
}

// Run implements core.LineWorker.
func (w *CustomFieldsWorker) Run(
	ctx context.Context,
	job *model.BulkJob,
	actionName string,
) (model.Snapshot, error) {
	var in model.CustomFieldsInput
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
			fields := splitLine(target.RawInput)
			if len(fields) != customFieldColumns {
				return FailWith(messages.Format(msgcat.KeyColumnCount, customFieldColumns, len(fields))), nil
			}
			externalID, field, value := fields[0], fields[1], fields[2]
			if externalID == "" {
				return FailWith(messages.Format(msgcat.KeyFieldRequired, "external id")), nil
			}
			if field == "" {
				return FailWith(messages.Format(msgcat.KeyFieldRequired, "field")), nil
			}

			updateErr := w.roster.UpdateCustomFieldInTx(ctx, tx, core.UpdateCustomFieldParams{
				ContractID: contract.ID,
				ExternalID: externalID,
				Field:      field,
				Value:      value,
			})
			switch {
			case updateErr == nil:
				return Succeed(), nil
			case errors.Is(updateErr, data.ErrUnknownCustomField):
				return FailWith(messages.Format(msgcat.KeyUnknownField, field)), nil
			case errors.Is(updateErr, data.ErrStudentNotFound):
				return FailWith(messages.Format(msgcat.KeyStudentNotFound)), nil
			default:
				return LineResult{}, updateErr
			}
		},
	})
}
