// Package progress implements the in-memory per-execution progress counter
// for bulk jobs.
package progress

import (
	"time"

	"github.com/classtools/rosterjobs/internal/domain/model"
)

// Tracker accumulates per-line outcomes for one job execution and produces
// point-in-time snapshots. One tracker belongs to exactly one running worker
// and is never shared across executions, so it carries no locking.
//
// Callers must pair every Attempt with exactly one of Success, Skip, or
// Fail; the tracker does not enforce the pairing, but snapshots of a
// violating caller break the attempted == succeeded+skipped+failed
// invariant.
type Tracker struct {
	actionName string
	total      int
	attempted  int
	succeeded  int
	skipped    int
	failed     int
	startedAt  time.Time
	now        func() time.Time
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock overrides the tracker's clock, used by tests to make durations
// deterministic.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates a tracker for a job of the given declared size.
func NewTracker(actionName string, total int, opts ...Option) *Tracker {
	t := &Tracker{
		actionName: actionName,
		total:      total,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.startedAt = t.now()
	return t
}

// Attempt records that processing of one line began.
func (t *Tracker) Attempt() { t.attempted++ }

// Success records a successfully applied line.
func (t *Tracker) Success() { t.succeeded++ }

// Skip records a benign non-error line (blank input, already in the desired
// end state).
func (t *Tracker) Skip() { t.skipped++ }

// Fail records a failed line, whether from validation or an unexpected
// error caught at the line boundary.
func (t *Tracker) Fail() { t.failed++ }

// Attempted returns the number of lines attempted so far.
func (t *Tracker) Attempted() int { return t.attempted }

// Snapshot returns the current counters plus wall-clock elapsed time. The
// optional extra map is attached verbatim for operation-specific fields.
func (t *Tracker) Snapshot(extra map[string]any) model.Snapshot {
	return model.Snapshot{
		ActionName: t.actionName,
		Total:      t.total,
		Attempted:  t.attempted,
		Succeeded:  t.succeeded,
		Skipped:    t.skipped,
		Failed:     t.failed,
		DurationMS: t.now().Sub(t.startedAt).Milliseconds(),
		Extra:      extra,
	}
}
