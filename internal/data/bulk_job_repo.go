package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/classtools/rosterjobs/internal/data/pgxutil"
	"github.com/classtools/rosterjobs/internal/domain/model"
)

// BulkJobRepo provides database operations for bulk job management.
type BulkJobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// BulkJobRepoConfig holds optional dependencies for BulkJobRepo.
type BulkJobRepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// NewBulkJobRepo creates a new BulkJobRepo with the given database connection.
func NewBulkJobRepo(db *sql.DB, cfg BulkJobRepoConfig) *BulkJobRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &BulkJobRepo{
		DB:           db,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const bulkJobColumns = `
  id,
  type,
  dedup_key,
  state,
  input,
  output,
  started_at,
  ended_at,
  created_at,
  updated_at
`

func scanBulkJob(row pgx.Row) (*model.BulkJob, error) {
	var j model.BulkJob
	var output sql.NullString
	err := row.Scan(
		&j.ID, &j.Type, &j.DedupKey, &j.State, &j.Input, &output,
		&j.StartedAt, &j.EndedAt, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if output.Valid {
		j.Output = json.RawMessage(output.String)
	}
	return &j, nil
}

// Create inserts a job in state Queuing together with one line target per
// line, all in one transaction. A job whose dedup key collides with another
// Queuing or InProgress job is rejected with ErrDuplicateSubmission.
func (r *BulkJobRepo) Create(
	ctx context.Context,
	req *model.CreateBulkJobRequest,
	dedupKey string,
) (*model.BulkJob, error) {
	if req == nil {
		return nil, errors.New("create bulk job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if dedupKey == "" {
		return nil, errors.New("dedup key is required")
	}

	id := uuid.NewString()
	now := r.timeProvider.Now().UTC()

	var job *model.BulkJob
	txErr := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		var active bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM bulk_jobs
				WHERE dedup_key = $1 AND state IN ('queuing', 'in_progress')
			)`, dedupKey).Scan(&active); err != nil {
			return fmt.Errorf("check dedup key: %w", err)
		}
		if active {
			return ErrDuplicateSubmission
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO bulk_jobs (id, type, dedup_key, state, input, created_at, updated_at)
			VALUES ($1, $2, $3, 'queuing', $4, $5, $5)
			RETURNING `+bulkJobColumns, id, req.Type, dedupKey, []byte(req.Input), now)
		created, err := scanBulkJob(row)
		if err != nil {
			// A submission that slipped past the EXISTS check lands on the
			// partial unique index instead.
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrDuplicateSubmission
			}
			return fmt.Errorf("insert bulk job: %w", err)
		}

		for i, line := range req.Lines {
			if _, err := tx.Exec(ctx, `
				INSERT INTO line_targets (job_id, line_no, raw_input, completed, created_at)
				VALUES ($1, $2, $3, false, $4)`, id, i+1, line, now); err != nil {
				return fmt.Errorf("insert line target %d: %w", i+1, err)
			}
		}

		job = created
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "bulk job created",
			"id", job.ID, "type", job.Type, "lines", len(req.Lines))
	}
	return job, nil
}

// GetByID loads a job by ID, returning ErrJobNotFound when absent.
func (r *BulkJobRepo) GetByID(ctx context.Context, id string) (*model.BulkJob, error) {
	if id == "" {
		return nil, ErrJobNotFound
	}

	var job *model.BulkJob
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `SELECT `+bulkJobColumns+` FROM bulk_jobs WHERE id = $1`, id)
		j, scanErr := scanBulkJob(row)
		if scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return ErrJobNotFound
			}
			return fmt.Errorf("get bulk job: %w", scanErr)
		}
		job = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// NextQueued returns the oldest Queuing job, or nil when none is waiting.
func (r *BulkJobRepo) NextQueued(ctx context.Context) (*model.BulkJob, error) {
	var job *model.BulkJob
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT `+bulkJobColumns+`
			FROM bulk_jobs
			WHERE state = 'queuing'
			ORDER BY created_at ASC
			LIMIT 1`)
		j, scanErr := scanBulkJob(row)
		if scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("next queued job: %w", scanErr)
		}
		job = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// MarkInProgress transitions a Queuing job to InProgress so polling readers
// see progress begin before any line is processed.
func (r *BulkJobRepo) MarkInProgress(ctx context.Context, id string) error {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
		UPDATE bulk_jobs
		SET state = 'in_progress', started_at = $2, updated_at = $2
		WHERE id = $1 AND state = 'queuing'`, id, now)
	if err != nil {
		return fmt.Errorf("mark in progress: %w", err)
	}
	return requireOneRow(res, ErrJobNotFound)
}

// Complete records the final snapshot and transitions the job to Success.
func (r *BulkJobRepo) Complete(ctx context.Context, id string, output json.RawMessage) error {
	return r.finish(ctx, id, model.BulkJobStateSuccess, output)
}

// Fail records the failure descriptor and transitions the job to Failure.
func (r *BulkJobRepo) Fail(ctx context.Context, id string, output json.RawMessage) error {
	return r.finish(ctx, id, model.BulkJobStateFailure, output)
}

func (r *BulkJobRepo) finish(
	ctx context.Context,
	id string,
	state model.BulkJobState,
	output json.RawMessage,
) error {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
		UPDATE bulk_jobs
		SET state = $2, output = $3, ended_at = $4, updated_at = $4
		WHERE id = $1 AND state IN ('queuing', 'in_progress')`,
		id, state, []byte(output), now)
	if err != nil {
		return fmt.Errorf("finish bulk job: %w", err)
	}
	return requireOneRow(res, ErrJobNotFound)
}

// Requeue moves a failed job back to Queuing so the runner picks it up
// again. Line targets already resolved keep their outcome; only incomplete
// lines are retried. Requeueing fails with ErrDuplicateSubmission when
// another job with the same dedup key became active in the meantime.
func (r *BulkJobRepo) Requeue(ctx context.Context, id string) error {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
		UPDATE bulk_jobs
		SET state = 'queuing', started_at = NULL, ended_at = NULL, output = NULL, updated_at = $2
		WHERE id = $1 AND state = 'failure'`, id, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("requeue bulk job: %w", ErrDuplicateSubmission)
		}
		return fmt.Errorf("requeue bulk job: %w", err)
	}
	return requireOneRow(res, ErrJobNotFound)
}

// List returns jobs in reverse creation order for operator tooling.
func (r *BulkJobRepo) List(ctx context.Context, limit, offset int) ([]*model.BulkJob, error) {
	if limit <= 0 {
		limit = 50
	}

	var jobs []*model.BulkJob
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			SELECT `+bulkJobColumns+`
			FROM bulk_jobs
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`, limit, offset)
		if queryErr != nil {
			return fmt.Errorf("list bulk jobs: %w", queryErr)
		}
		defer rows.Close()

		for rows.Next() {
			j, scanErr := scanBulkJob(rows)
			if scanErr != nil {
				return fmt.Errorf("scan bulk job: %w", scanErr)
			}
			jobs = append(jobs, j)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func requireOneRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}
