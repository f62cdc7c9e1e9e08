package model

import (
	"encoding/json"
	"unicode/utf8"
)

// Snapshot is a point-in-time view of a job's progress. It is published to
// the progress store while the job runs and persisted as the job's Output on
// success. Extra carries operation-specific fields merged in by the worker.
type Snapshot struct {
	ActionName string         `json:"action_name"`
	Total      int            `json:"total"`
	Attempted  int            `json:"attempted"`
	Succeeded  int            `json:"succeeded"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
	DurationMS int64          `json:"duration_ms"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Consistent reports whether the counter invariant holds: every attempted
// line was resolved as exactly one of succeeded, skipped, or failed.
func (s Snapshot) Consistent() bool {
	return s.Attempted == s.Succeeded+s.Skipped+s.Failed
}

// FailureOutputBudget bounds the serialized failure descriptor. When the
// combined error type, message, and trace exceed it, the trace is dropped
// first and the message truncated second.
const FailureOutputBudget = 1024

// Failure is the descriptor persisted as a job's Output when execution
// aborts. Polling clients see only the error type and message; the truncated
// trace is for operators.
type Failure struct {
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
	Trace     string `json:"trace,omitempty"`
}

// Bounded returns a copy trimmed to fit FailureOutputBudget, dropping the
// trace before truncating the message.
func (f Failure) Bounded() Failure {
	if f.size() <= FailureOutputBudget {
		return f
	}
	f.Trace = ""
	if over := f.size() - FailureOutputBudget; over > 0 && over < len(f.Message) {
		f.Message = truncateRunes(f.Message, len(f.Message)-over)
	} else if over >= len(f.Message) {
		f.Message = ""
	}
	return f
}

// truncateRunes cuts s to at most max bytes without splitting a multi-byte
// rune, so catalog messages survive truncation intact.
func truncateRunes(s string, max int) string {
	if max >= len(s) {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func (f Failure) size() int {
	return len(f.ErrorType) + len(f.Message) + len(f.Trace)
}

// MarshalOutput serializes the bounded failure for persistence in
// BulkJob.Output.
func (f Failure) MarshalOutput() json.RawMessage {
	b, err := json.Marshal(f.Bounded())
	if err != nil {
		// Failure has only string fields; marshal cannot fail in practice.
		return json.RawMessage(`{"error_type":"marshal_error"}`)
	}
	return b
}
