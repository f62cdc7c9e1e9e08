package model

import "time"

// LineTarget is one atomic unit of per-record work within a bulk job: a raw
// CSV row, or the ID of an existing roster row being acted on.
//
// Message and Completed are written exactly once per attempt. Completed marks
// that a terminal decision (success, skip, or fail) was recorded for the
// line, so an operator auditing a partial rerun can tell handled lines from
// untouched ones. The engine never deletes line targets.
type LineTarget struct {
	ID        int64      `json:"id"                 db:"id"`
	JobID     string     `json:"job_id"             db:"job_id"`
	LineNo    int        `json:"line_no"            db:"line_no"`
	RawInput  string     `json:"raw_input"          db:"raw_input"`
	Message   *string    `json:"message,omitempty"  db:"message"`
	Completed bool       `json:"completed"          db:"completed"`
	CreatedAt time.Time  `json:"created_at"         db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
