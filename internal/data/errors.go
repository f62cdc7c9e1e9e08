package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrJobNotFound is returned when a bulk job is not found.
	ErrJobNotFound = errors.New("bulk job not found")
	// ErrDuplicateSubmission is returned when a job with the same dedup key
	// is still queuing or in progress.
	ErrDuplicateSubmission = errors.New("duplicate job submission")
	// ErrLineTargetNotFound is returned when a line target is not found.
	ErrLineTargetNotFound = errors.New("line target not found")
	// ErrContractNotFound is returned when a contract is not found.
	ErrContractNotFound = errors.New("contract not found")
	// ErrStudentNotFound is returned when a student is not found.
	ErrStudentNotFound = errors.New("student not found")
	// ErrStudentConflict is returned when a student insert violates a
	// roster uniqueness constraint (email or login code already taken).
	ErrStudentConflict = errors.New("student conflicts with existing roster row")
	// ErrUnknownCustomField is returned when updating a custom field the
	// contract does not define.
	ErrUnknownCustomField = errors.New("unknown custom field")
)
