package model

import (
	"fmt"
	"strings"
	"time"
)

// BatchStatusType identifies which nightly batch a status row belongs to.
type BatchStatusType string

const (
	// BatchStatusTypeScores is the per-course score aggregation batch.
	BatchStatusTypeScores BatchStatusType = "aggregate_scores"
	// BatchStatusTypePlayback is the per-contract playback metrics batch.
	BatchStatusTypePlayback BatchStatusType = "aggregate_playback"
)

// Valid returns true if the BatchStatusType is valid.
func (t BatchStatusType) Valid() bool {
	return t == BatchStatusTypeScores || t == BatchStatusTypePlayback
}

// BatchState is the per-attempt outcome recorded in the status log.
type BatchState string

const (
	// BatchStateStarted is written synchronously before work begins.
	BatchStateStarted BatchState = "started"
	// BatchStateFinished is written after the batch completed successfully.
	BatchStateFinished BatchState = "finished"
	// BatchStateError is written after the batch aborted.
	BatchStateError BatchState = "error"
)

// Valid returns true if the BatchState is valid.
func (s BatchState) Valid() bool {
	return s == BatchStateStarted || s == BatchStateFinished || s == BatchStateError
}

// BatchKey identifies one guarded batch: a batch type scoped to a contract
// and, for course-grained batches, a course.
type BatchKey struct {
	Type       BatchStatusType
	ContractID int64
	CourseID   *int64
}

// String renders the key for logging and Redis/metric labels.
func (k BatchKey) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d", k.Type, k.ContractID)
	if k.CourseID != nil {
		fmt.Fprintf(&b, ":%d", *k.CourseID)
	}
	return b.String()
}

// BatchStatus is one append-only row in the daily batch status log. Rows are
// never updated or deleted; "today's status" is always derived by querying
// the most recent row within today's window.
type BatchStatus struct {
	ID           int64           `json:"id"                      db:"id"`
	Type         BatchStatusType `json:"type"                    db:"type"`
	ContractID   int64           `json:"contract_id"             db:"contract_id"`
	CourseID     *int64          `json:"course_id,omitempty"     db:"course_id"`
	State        BatchState      `json:"state"                   db:"state"`
	Processed    *int            `json:"processed,omitempty"     db:"processed"`
	SuccessCount *int            `json:"success_count,omitempty" db:"success_count"`
	FailureCount *int            `json:"failure_count,omitempty" db:"failure_count"`
	CreatedAt    time.Time       `json:"created_at"              db:"created_at"`
}

// Key returns the BatchKey this row belongs to.
func (s *BatchStatus) Key() BatchKey {
	return BatchKey{Type: s.Type, ContractID: s.ContractID, CourseID: s.CourseID}
}

// BatchCounts carries the count fields recorded with a Finished or Error row.
// Nil fields are stored as NULL, matching "counts unknown" for early aborts.
type BatchCounts struct {
	Processed    *int
	SuccessCount *int
	FailureCount *int
}

// CountsOf is a convenience constructor for a fully-known BatchCounts.
func CountsOf(processed, succeeded, failed int) BatchCounts {
	return BatchCounts{Processed: &processed, SuccessCount: &succeeded, FailureCount: &failed}
}
