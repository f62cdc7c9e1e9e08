// Package core defines the ports between the service layer and its
// collaborators (repositories, the progress store, outbound mail, the
// reporting document store).
package core

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/classtools/rosterjobs/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal
// architecture). Service implementations depend on these interfaces, not on
// the concrete pgx-backed implementations in internal/data.

// BulkJobRepository defines the interface for bulk job data operations.
type BulkJobRepository interface {
	// Create inserts a job in state Queuing together with one line target
	// per line, all in one transaction. It returns ErrDuplicateSubmission
	// when another job with the same dedup key is still Queuing or
	// InProgress.
	Create(ctx context.Context, req *model.CreateBulkJobRequest, dedupKey string) (*model.BulkJob, error)
	GetByID(ctx context.Context, id string) (*model.BulkJob, error)
	// NextQueued returns the oldest job still in state Queuing, or nil when
	// none is waiting.
	NextQueued(ctx context.Context) (*model.BulkJob, error)
	MarkInProgress(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, output json.RawMessage) error
	Fail(ctx context.Context, id string, output json.RawMessage) error
	// Requeue moves a failed job back to Queuing for another attempt.
	Requeue(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*model.BulkJob, error)
}

// LineTargetRepository defines the interface for per-line target records.
type LineTargetRepository interface {
	// ListByJob returns all targets of a job in creation (line number) order.
	ListByJob(ctx context.Context, jobID string) ([]*model.LineTarget, error)
	// Resolve records the terminal decision for one target: completed=true
	// plus the optional outcome message. Called exactly once per attempt.
	Resolve(ctx context.Context, id int64, message *string) error
	// SetMessage records a message without marking the target completed,
	// used when an unexpected error left the line in a retryable state.
	SetMessage(ctx context.Context, id int64, message string) error
	CountCompleted(ctx context.Context, jobID string) (int, error)
}

// BatchStatusRepository defines the interface for the append-only daily
// batch status log.
type BatchStatusRepository interface {
	Append(ctx context.Context, row *model.BatchStatus) error
	ExistsInWindow(ctx context.Context, key model.BatchKey, from, to time.Time) (bool, error)
	// MostRecentInWindow returns the newest row for the key within the
	// window, or nil when the key has no row there.
	MostRecentInWindow(ctx context.Context, key model.BatchKey, from, to time.Time) (*model.BatchStatus, error)
	ListInWindow(ctx context.Context, from, to time.Time) ([]*model.BatchStatus, error)
}

// UpdateCustomFieldParams groups parameters for RosterRepository.UpdateCustomFieldInTx.
type UpdateCustomFieldParams struct {
	ContractID int64
	ExternalID string
	Field      string
	Value      string
}

// RosterRepository defines the interface for contract and student roster
// operations. The InTx variants participate in the caller's per-line
// transaction so one line's writes commit or roll back as a unit.
type RosterRepository interface {
	GetContract(ctx context.Context, id int64) (*model.Contract, error)
	GetStudent(ctx context.Context, contractID int64, studentID string) (*model.Student, error)
	InsertStudentInTx(ctx context.Context, tx *sql.Tx, s *model.Student) error
	// UnregisterInTx returns false when the student was already unregistered.
	UnregisterInTx(ctx context.Context, tx *sql.Tx, contractID int64, studentID string) (bool, error)
	// MaskInTx returns false when the student's personal data was already masked.
	MaskInTx(ctx context.Context, tx *sql.Tx, contractID int64, studentID string) (bool, error)
	UpdateCustomFieldInTx(ctx context.Context, tx *sql.Tx, p UpdateCustomFieldParams) error
}

// ScoreRepository defines read access to raw per-student score and playback
// documents consumed by the nightly aggregations.
type ScoreRepository interface {
	ListScores(ctx context.Context, contractID, courseID int64, until time.Time) ([]*model.ScoreDocument, error)
	ListPlayback(ctx context.Context, contractID int64, until time.Time) ([]*model.ScoreDocument, error)
}

// ReportStore is the port to the external reporting document store the
// nightly aggregations write into.
type ReportStore interface {
	WriteRows(ctx context.Context, rows []model.ReportRow) error
}

// ProgressPublisher pushes progress snapshots to the external execution
// runtime for observability. Publishing is best effort; failures must not
// abort the job.
type ProgressPublisher interface {
	Publish(ctx context.Context, jobID string, snap model.Snapshot) error
}

// MailSession is an open outbound-mail connection shared across the lines of
// one job. Close must be safe to call on every exit path.
type MailSession interface {
	Send(ctx context.Context, to, subject, body string) error
	Close() error
}

// Mailer opens job-scoped mail sessions.
type Mailer interface {
	Open(ctx context.Context) (MailSession, error)
}

// Transactor runs a function within a database transaction. The line
// processor opens one transaction per line through it.
type Transactor interface {
	InTx(ctx context.Context, fn func(*sql.Tx) error) error
}

// LineWorker is the pluggable per-operation business function. Run iterates
// the job's line targets and returns the final progress snapshot; a returned
// error is fatal to the whole job.
type LineWorker interface {
	Run(ctx context.Context, job *model.BulkJob, actionName string) (model.Snapshot, error)
}
