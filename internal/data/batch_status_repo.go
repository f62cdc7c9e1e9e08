package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/classtools/rosterjobs/internal/domain/model"
)

// BatchStatusRepo provides database operations for the append-only daily
// batch status log. Rows are only ever inserted; "today's status" is derived
// by querying within a time window, so a concurrent second run appends its
// own row rather than corrupting the first.
type BatchStatusRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewBatchStatusRepo creates a new BatchStatusRepo with the given database connection.
func NewBatchStatusRepo(db *sql.DB) *BatchStatusRepo {
	return &BatchStatusRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewBatchStatusRepoWithTimeProvider creates a BatchStatusRepo with a custom
// TimeProvider (useful for testing).
func NewBatchStatusRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *BatchStatusRepo {
	return &BatchStatusRepo{DB: db, timeProvider: tp}
}

const batchStatusColumns = `
  id,
  type,
  contract_id,
  course_id,
  state,
  processed,
  success_count,
  failure_count,
  created_at
`

// Append inserts one new status row. This is the only mutation the log
// supports.
func (r *BatchStatusRepo) Append(ctx context.Context, row *model.BatchStatus) error {
	if row == nil {
		return errors.New("batch status row is required")
	}
	if !row.Type.Valid() {
		return fmt.Errorf("invalid batch status type: %q", row.Type)
	}
	if !row.State.Valid() {
		return fmt.Errorf("invalid batch state: %q", row.State)
	}

	created := row.CreatedAt
	if created.IsZero() {
		created = r.timeProvider.Now().UTC()
	}

	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO batch_statuses (type, contract_id, course_id, state, processed, success_count, failure_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		row.Type, row.ContractID, row.CourseID, row.State,
		row.Processed, row.SuccessCount, row.FailureCount, created,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return fmt.Errorf("append batch status: %w", err)
	}
	return nil
}

// keyPredicate builds the WHERE fragment for a batch key. course_id is
// matched as NULL for contract-grained keys.
const keyPredicate = `
	type = $1 AND contract_id = $2
	AND ($3::bigint IS NULL AND course_id IS NULL OR course_id = $3)
	AND created_at >= $4 AND created_at < $5`

// ExistsInWindow reports whether any row for the key was created within
// [from, to).
func (r *BatchStatusRepo) ExistsInWindow(
	ctx context.Context,
	key model.BatchKey,
	from, to time.Time,
) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM batch_statuses WHERE`+keyPredicate+`)`,
		key.Type, key.ContractID, key.CourseID, from.UTC(), to.UTC(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("batch status exists in window: %w", err)
	}
	return exists, nil
}

// MostRecentInWindow returns the newest row for the key within [from, to),
// or nil when the key has no row there.
func (r *BatchStatusRepo) MostRecentInWindow(
	ctx context.Context,
	key model.BatchKey,
	from, to time.Time,
) (*model.BatchStatus, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+batchStatusColumns+`
		FROM batch_statuses
		WHERE`+keyPredicate+`
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		key.Type, key.ContractID, key.CourseID, from.UTC(), to.UTC())

	var s model.BatchStatus
	err := row.Scan(
		&s.ID, &s.Type, &s.ContractID, &s.CourseID, &s.State,
		&s.Processed, &s.SuccessCount, &s.FailureCount, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("most recent batch status: %w", err)
	}
	return &s, nil
}

// ListInWindow returns all rows created within [from, to) across keys, for
// operator tooling.
func (r *BatchStatusRepo) ListInWindow(
	ctx context.Context,
	from, to time.Time,
) ([]*model.BatchStatus, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+batchStatusColumns+`
		FROM batch_statuses
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC, id ASC`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("list batch statuses: %w", err)
	}
	defer rows.Close()

	var out []*model.BatchStatus
	for rows.Next() {
		var s model.BatchStatus
		if scanErr := rows.Scan(
			&s.ID, &s.Type, &s.ContractID, &s.CourseID, &s.State,
			&s.Processed, &s.SuccessCount, &s.FailureCount, &s.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan batch status: %w", scanErr)
		}
		out = append(out, &s)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate batch statuses: %w", rowsErr)
	}
	return out, nil
}
