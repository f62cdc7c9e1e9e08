package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/msgcat"
)

// ReminderWorkerOptions groups dependencies for ReminderWorker.
type ReminderWorkerOptions struct {
	Roster    core.RosterRepository // Required: roster repository
	Processor *LineProcessor        // Required: shared line loop
	Mailer    core.Mailer           // Required: reminder mail delivery
	Logger    *slog.Logger          // Optional: structured logger
}

// ReminderWorker sends reminder mail to students, one student ID per line.
// Students who already completed the course, or who were unregistered, are
// skipped. One SMTP connection is shared across all lines of the job.
type ReminderWorker struct {
	roster core.RosterRepository
	proc   *LineProcessor
	mailer core.Mailer
	logger *slog.Logger
}

var _ core.LineWorker = (*ReminderWorker)(nil)

// NewReminderWorker constructs a new ReminderWorker.
func NewReminderWorker(opts ReminderWorkerOptions) (*ReminderWorker, error) {
	if opts.Roster == nil {
		return nil, errors.New("RosterRepository is required")
	}
	if opts.Processor == nil {
		return nil, errors.New("LineProcessor is required")
	}
	if opts.Mailer == nil {
		return nil, errors.New("Mailer is required")
	}
	return &ReminderWorker{
		roster: opts.Roster,
		proc:   opts.Processor,
		mailer: opts.Mailer,
		logger: opts.Logger,
	}, nil
}

// Run implements core.LineWorker.
func (w *ReminderWorker) Run(
	ctx context.Context,
	job *model.BulkJob,
	actionName string,
) (model.Snapshot, error) {
	var in model.ReminderInput
	if err := model.DecodeInput(job.Input, &in); err != nil {
		return model.Snapshot{}, NewInputError(err)
	}

	contract, err := resolveContract(ctx, w.roster, &in.JobInput)
	if err != nil {
		return model.Snapshot{}, err
	}

	messages := msgcat.New(in.Locale)

	session, err := w.mailer.Open(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("open mail session: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil && w.logger != nil {
			w.logger.WarnContext(ctx, "close mail session failed", "error", closeErr)
		}
	}()

	mailsSent := 0

	snap, err := w.proc.Process(ctx, ProcessParams{
		Job:        job,
		ActionName: actionName,
		Messages:   messages,
		Fn: func(ctx context.Context, tx *sql.Tx, target *model.LineTarget) (LineResult, error) {
			studentID := target.RawInput
			if _, parseErr := uuid.Parse(studentID); parseErr != nil {
				return FailWith(messages.Format(msgcat.KeyInvalidStudentID)), nil
			}

			student, getErr := w.roster.GetStudent(ctx, contract.ID, studentID)
			if getErr != nil {
				if isNotFound(getErr) {
					return FailWith(messages.Format(msgcat.KeyStudentNotFound)), nil
				}
				return LineResult{}, getErr
			}
			if student.CourseID != in.CourseID {
				return FailWith(messages.Format(msgcat.KeyInvalidCourse)), nil
			}
			if student.Status != model.StudentStatusActive || student.Completed {
				return SkipWith(messages.Format(msgcat.KeyAlreadyDone)), nil
			}

			if sendErr := session.Send(ctx, student.Email, in.Subject, in.Body); sendErr != nil {
				return LineResult{}, fmt.Errorf("send reminder mail: %w", sendErr)
			}
			mailsSent++
			return Succeed(), nil
		},
	})
	if err != nil {
		return model.Snapshot{}, err
	}

	snap.Extra = map[string]any{"mails_sent": mailsSent}
	return snap, nil
}
