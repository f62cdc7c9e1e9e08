package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Per-operation declared inputs. Each bulk job carries an opaque JSON input;
// the worker that owns the job type decodes it into its typed struct at
// entry. The engine itself never reads these fields.
//
// Every input embeds JobInput, the keys required by all operations: the
// contract being acted on, the upload/history row the job was submitted
// from, and the revision of the contract the submitting form displayed. A
// revision mismatch at execution time means the contract changed between
// form render and job start, and the whole job fails fast.

// JobInput holds the keys required by every bulk operation.
type JobInput struct {
	ContractID  int64  `json:"contract_id"`
	HistoryID   int64  `json:"history_id"`
	ContractRev int    `json:"contract_rev"`
	Locale      string `json:"locale,omitempty"`
}

// Validate checks the always-required keys.
func (in *JobInput) Validate() error {
	if in.ContractID == 0 {
		return errors.New("contract_id is required")
	}
	if in.HistoryID == 0 {
		return errors.New("history_id is required")
	}
	return nil
}

// RegistrationInput configures a register_students job.
type RegistrationInput struct {
	JobInput
	WithLoginCode bool `json:"with_login_code"`
	SendWelcome   bool `json:"send_welcome"`
}

// UnregistrationInput configures an unregister_students job. OperatorID is
// the student ID of the submitting operator, used by the
// "not acting on yourself" check.
type UnregistrationInput struct {
	JobInput
	OperatorID string `json:"operator_id"`
}

// Validate checks required keys beyond the common set.
func (in *UnregistrationInput) Validate() error {
	if err := in.JobInput.Validate(); err != nil {
		return err
	}
	if in.OperatorID == "" {
		return errors.New("operator_id is required")
	}
	return nil
}

// MaskInput configures a mask_personal_data job.
type MaskInput struct {
	JobInput
	OperatorID string `json:"operator_id"`
}

// Validate checks required keys beyond the common set.
func (in *MaskInput) Validate() error {
	if err := in.JobInput.Validate(); err != nil {
		return err
	}
	if in.OperatorID == "" {
		return errors.New("operator_id is required")
	}
	return nil
}

// CustomFieldsInput configures an update_custom_fields job.
type CustomFieldsInput struct {
	JobInput
}

// ReminderInput configures a send_reminder_mail job.
type ReminderInput struct {
	JobInput
	CourseID int64  `json:"course_id"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// Validate checks required keys beyond the common set.
func (in *ReminderInput) Validate() error {
	if err := in.JobInput.Validate(); err != nil {
		return err
	}
	if in.CourseID == 0 {
		return errors.New("course_id is required")
	}
	return nil
}

// DecodeInput decodes a job's opaque input into the typed struct for its
// operation and validates required keys. Decode or validation errors are
// fatal to the job.
func DecodeInput[T interface{ Validate() error }](raw json.RawMessage, into T) error {
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("decode job input: %w", err)
	}
	if err := into.Validate(); err != nil {
		return fmt.Errorf("invalid job input: %w", err)
	}
	return nil
}
