package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/classtools/rosterjobs/internal/domain/model"
)

// LineTargetRepo provides database operations for per-line target records.
type LineTargetRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewLineTargetRepo creates a new LineTargetRepo with the given database connection.
func NewLineTargetRepo(db *sql.DB) *LineTargetRepo {
	return &LineTargetRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewLineTargetRepoWithTimeProvider creates a LineTargetRepo with a custom
// TimeProvider (useful for testing).
func NewLineTargetRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *LineTargetRepo {
	return &LineTargetRepo{DB: db, timeProvider: tp}
}

const lineTargetColumns = `
  id,
  job_id,
  line_no,
  raw_input,
  message,
  completed,
  created_at,
  updated_at
`

// ListByJob returns all targets of a job in line number (creation) order.
func (r *LineTargetRepo) ListByJob(ctx context.Context, jobID string) ([]*model.LineTarget, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+lineTargetColumns+`
		FROM line_targets
		WHERE job_id = $1
		ORDER BY line_no ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list line targets: %w", err)
	}
	defer rows.Close()

	var targets []*model.LineTarget
	for rows.Next() {
		var t model.LineTarget
		if scanErr := rows.Scan(
			&t.ID, &t.JobID, &t.LineNo, &t.RawInput,
			&t.Message, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan line target: %w", scanErr)
		}
		targets = append(targets, &t)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate line targets: %w", rowsErr)
	}
	return targets, nil
}

// Resolve records the terminal decision for one target. The message is set
// exactly once; nil leaves it NULL for lines with nothing to report.
func (r *LineTargetRepo) Resolve(ctx context.Context, id int64, message *string) error {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
		UPDATE line_targets
		SET completed = true, message = $2, updated_at = $3
		WHERE id = $1`, id, message, now)
	if err != nil {
		return fmt.Errorf("resolve line target: %w", err)
	}
	return requireOneRow(res, ErrLineTargetNotFound)
}

// SetMessage records a message while leaving the target incomplete, so an
// operator rerun can still tell the line was never terminally decided.
func (r *LineTargetRepo) SetMessage(ctx context.Context, id int64, message string) error {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
		UPDATE line_targets
		SET message = $2, updated_at = $3
		WHERE id = $1`, id, message, now)
	if err != nil {
		return fmt.Errorf("set line target message: %w", err)
	}
	return requireOneRow(res, ErrLineTargetNotFound)
}

// CountCompleted returns how many of a job's targets carry a terminal
// decision, for operator auditing of partial runs.
func (r *LineTargetRepo) CountCompleted(ctx context.Context, jobID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM line_targets
		WHERE job_id = $1 AND completed`, jobID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed line targets: %w", err)
	}
	return n, nil
}
