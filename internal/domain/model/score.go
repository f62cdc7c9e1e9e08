package model

import (
	"encoding/json"
	"time"
)

// ScoreDocument is one raw per-student score/playback record as delivered by
// the learning platform. Payload is opaque to the engine; the nightly
// aggregations extract fields from it with configured JMESPath expressions.
type ScoreDocument struct {
	ID         int64           `json:"id"          db:"id"`
	ContractID int64           `json:"contract_id" db:"contract_id"`
	CourseID   int64           `json:"course_id"   db:"course_id"`
	StudentID  string          `json:"student_id"  db:"student_id"`
	Payload    json.RawMessage `json:"payload"     db:"payload"`
	RecordedAt time.Time       `json:"recorded_at" db:"recorded_at"`
}

// ReportRow is one aggregated per-student row written to the reporting
// store by a nightly batch.
type ReportRow struct {
	ContractID int64           `json:"contract_id"`
	CourseID   *int64          `json:"course_id,omitempty"`
	StudentID  string          `json:"student_id"`
	Batch      BatchStatusType `json:"batch"`
	Fields     map[string]any  `json:"fields"`
	ReportDate time.Time       `json:"report_date"`
}
