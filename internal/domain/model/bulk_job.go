// Package model defines the core data types and structures used throughout the rosterjobs system.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// BulkJobType represents the kind of bulk operation a job performs.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type BulkJobType string

// BulkJobState represents the lifecycle state of a bulk job.
type BulkJobState string

const (
	// BulkJobTypeRegister registers students from uploaded CSV lines.
	BulkJobTypeRegister BulkJobType = "register_students"
	// BulkJobTypeUnregister unregisters existing students by ID.
	BulkJobTypeUnregister BulkJobType = "unregister_students"
	// BulkJobTypeMask overwrites personal data of students with placeholders.
	BulkJobTypeMask BulkJobType = "mask_personal_data"
	// BulkJobTypeCustomFields updates per-student custom field values.
	BulkJobTypeCustomFields BulkJobType = "update_custom_fields"
	// BulkJobTypeReminder sends reminder mail to students.
	BulkJobTypeReminder BulkJobType = "send_reminder_mail"

	// BulkJobStateQueuing indicates a job is waiting to be picked up.
	BulkJobStateQueuing BulkJobState = "queuing"
	// BulkJobStateInProgress indicates a job is currently executing.
	BulkJobStateInProgress BulkJobState = "in_progress"
	// BulkJobStateSuccess indicates a job finished; individual lines may still have failed.
	BulkJobStateSuccess BulkJobState = "success"
	// BulkJobStateFailure indicates the job aborted before or during execution.
	BulkJobStateFailure BulkJobState = "failure"
)

// UnmarshalText implements encoding.TextUnmarshaler for BulkJobType to allow env parsing.
func (t *BulkJobType) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	jt := BulkJobType(v)
	if jt.Valid() {
		*t = jt
		return nil
	}
	return fmt.Errorf("invalid BulkJobType: %q", v)
}

// Valid returns true if the BulkJobType is valid.
func (t BulkJobType) Valid() bool {
	switch t {
	case BulkJobTypeRegister, BulkJobTypeUnregister, BulkJobTypeMask,
		BulkJobTypeCustomFields, BulkJobTypeReminder:
		return true
	}
	return false
}

// Valid returns true if the BulkJobState is valid.
func (s BulkJobState) Valid() bool {
	return s == BulkJobStateQueuing || s == BulkJobStateInProgress ||
		s == BulkJobStateSuccess || s == BulkJobStateFailure
}

// Terminal returns true once the state can no longer change.
func (s BulkJobState) Terminal() bool {
	return s == BulkJobStateSuccess || s == BulkJobStateFailure
}

// BulkJob is one submitted unit of asynchronous bulk work.
//
// Input is the operation-specific declared input; the engine never inspects
// it beyond passing it to the worker, which decodes it into its typed input
// struct. Output holds the final progress snapshot on success or the failure
// descriptor on failure, in the same shape for polling and audit.
type BulkJob struct {
	ID        string          `json:"id"                   db:"id"`
	Type      BulkJobType     `json:"type"                 db:"type"`
	DedupKey  string          `json:"dedup_key"            db:"dedup_key"`
	State     BulkJobState    `json:"state"                db:"state"`
	Input     json.RawMessage `json:"input"                db:"input"`
	Output    json.RawMessage `json:"output,omitempty"     db:"output"`
	StartedAt *time.Time      `json:"started_at,omitempty" db:"started_at"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"   db:"ended_at"`
	CreatedAt time.Time       `json:"created_at"           db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"           db:"updated_at"`
}

// CreateBulkJobRequest represents a request to create a new bulk job
// together with its line targets.
type CreateBulkJobRequest struct {
	Type  BulkJobType     `json:"type"`
	Input json.RawMessage `json:"input"`
	Lines []string        `json:"lines"`
}

// Validate validates the CreateBulkJobRequest fields.
func (r *CreateBulkJobRequest) Validate() error {
	if !r.Type.Valid() {
		return errors.New("invalid bulk job type")
	}
	if len(r.Input) == 0 {
		return errors.New("input is required")
	}
	return nil
}

// DedupKey derives the duplicate-submission key for a job of the given type
// against the given contract. Two jobs with the same key cannot be Queuing or
// InProgress at the same time.
func DedupKey(t BulkJobType, contractID int64) string {
	return fmt.Sprintf("%s:%d", t, contractID)
}
