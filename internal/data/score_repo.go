package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/classtools/rosterjobs/internal/domain/model"
)

// ScoreRepo provides read access to raw per-student score and playback
// documents delivered by the learning platform. The nightly aggregations are
// its only consumers.
type ScoreRepo struct {
	DB *sql.DB
}

// NewScoreRepo creates a new ScoreRepo with the given database connection.
func NewScoreRepo(db *sql.DB) *ScoreRepo {
	return &ScoreRepo{DB: db}
}

const scoreColumns = `
  id,
  contract_id,
  course_id,
  student_id,
  payload,
  recorded_at
`

func (r *ScoreRepo) list(ctx context.Context, query string, args ...any) ([]*model.ScoreDocument, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list score documents: %w", err)
	}
	defer rows.Close()

	var docs []*model.ScoreDocument
	for rows.Next() {
		var d model.ScoreDocument
		if scanErr := rows.Scan(
			&d.ID, &d.ContractID, &d.CourseID, &d.StudentID, &d.Payload, &d.RecordedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan score document: %w", scanErr)
		}
		docs = append(docs, &d)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate score documents: %w", rowsErr)
	}
	return docs, nil
}

// ListScores returns score documents for one contract and course recorded
// before the cutoff, in recording order.
func (r *ScoreRepo) ListScores(
	ctx context.Context,
	contractID, courseID int64,
	until time.Time,
) ([]*model.ScoreDocument, error) {
	return r.list(ctx, `
		SELECT `+scoreColumns+`
		FROM score_documents
		WHERE contract_id = $1 AND course_id = $2
		  AND kind = 'score' AND recorded_at < $3
		ORDER BY recorded_at ASC, id ASC`, contractID, courseID, until.UTC())
}

// ListPlayback returns playback documents for one contract recorded before
// the cutoff, in recording order.
func (r *ScoreRepo) ListPlayback(
	ctx context.Context,
	contractID int64,
	until time.Time,
) ([]*model.ScoreDocument, error) {
	return r.list(ctx, `
		SELECT `+scoreColumns+`
		FROM score_documents
		WHERE contract_id = $1
		  AND kind = 'playback' AND recorded_at < $2
		ORDER BY recorded_at ASC, id ASC`, contractID, until.UTC())
}
