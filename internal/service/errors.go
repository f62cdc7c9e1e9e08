// Package service implements the bulk job execution engine: the orchestrator,
// the shared line-processing loop, the per-operation workers, the daily batch
// status guard, and the nightly aggregations.
package service

import "errors"

// Job-level fatal errors. Any of these aborts the whole job before line
// processing; they are distinct from per-line validation failures, which are
// recorded on the line target and never abort the batch.
var (
	// ErrIdentityMismatch is returned when the job record's ID does not
	// match the ID the execution runtime reported. It guards against a
	// stale or duplicate execution picking up a job record meant for a
	// different run.
	ErrIdentityMismatch = errors.New("job identity mismatch")

	// ErrContractRevisionMismatch is returned when the contract resolved
	// from the job input no longer matches the revision the submitting form
	// displayed.
	ErrContractRevisionMismatch = errors.New("contract revision mismatch")

	// ErrUpstreamNotFinished is returned by a downstream aggregation when
	// the upstream batch has no Finished status for today.
	ErrUpstreamNotFinished = errors.New("upstream batch not finished today")

	// ErrAlreadyRanToday is returned by a guarded batch that already has a
	// status row for today and was not forced.
	ErrAlreadyRanToday = errors.New("batch already ran today")
)
