package data

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/testutil"
)

func registerRequest(lines ...string) *model.CreateBulkJobRequest {
	return &model.CreateBulkJobRequest{
		Type:  model.BulkJobTypeRegister,
		Input: json.RawMessage(`{"contract_id": 1, "history_id": 1, "contract_rev": 1}`),
		Lines: lines,
	}
}

func TestBulkJobRepo_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	ctx := context.Background()
	repo := NewBulkJobRepo(db, BulkJobRepoConfig{})
	targets := NewLineTargetRepo(db)

	t.Run("creates job and line targets atomically", func(t *testing.T) {
		job, err := repo.Create(ctx, registerRequest("a,b,c", "", "d,e,f"),
			model.DedupKey(model.BulkJobTypeRegister, 1))
		require.NoError(t, err)
		require.NotNil(t, job)

		assert.Equal(t, model.BulkJobStateQueuing, job.State)
		assert.Equal(t, "register_students:1", job.DedupKey)
		assert.Nil(t, job.StartedAt)

		lines, err := targets.ListByJob(ctx, job.ID)
		require.NoError(t, err)
		require.Len(t, lines, 3)
		// Blank lines are stored too, so line numbers match the uploaded file.
		assert.Equal(t, 2, lines[1].LineNo)
		assert.Equal(t, "", lines[1].RawInput)
		assert.False(t, lines[0].Completed)
	})

	t.Run("rejects a second active job with the same dedup key", func(t *testing.T) {
		_, err := repo.Create(ctx, registerRequest("x,y,z"),
			model.DedupKey(model.BulkJobTypeRegister, 1))
		require.ErrorIs(t, err, ErrDuplicateSubmission)
	})

	t.Run("same type against another contract is fine", func(t *testing.T) {
		req := testutil.NewBulkJobRequest().WithContract(2).WithLines("x,y,z").Build()
		_, err := repo.Create(ctx, req, model.DedupKey(model.BulkJobTypeRegister, 2))
		require.NoError(t, err)
	})

	t.Run("invalid request", func(t *testing.T) {
		_, err := repo.Create(ctx, &model.CreateBulkJobRequest{Type: "nope"}, "nope:1")
		require.Error(t, err)
	})

	t.Run("active dedup key is unique at the schema level", func(t *testing.T) {
		// Two submissions racing past the EXISTS check both reach the
		// insert; the partial unique index must reject the second one.
		_, err := db.ExecContext(ctx, `
			INSERT INTO bulk_jobs (id, type, dedup_key, state, input)
			VALUES ($1, 'register_students', $2, 'queuing', '{}'::jsonb)`,
			"99999999-8888-7777-6666-555555555555",
			model.DedupKey(model.BulkJobTypeRegister, 1))
		require.Error(t, err)

		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.Equal(t, pgerrcode.UniqueViolation, pgErr.Code)
	})
}

func TestBulkJobRepo_Lifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	ctx := context.Background()
	clock := NewFixedTimeProvider(time.Date(2026, 5, 10, 3, 0, 0, 0, time.UTC))
	repo := NewBulkJobRepo(db, BulkJobRepoConfig{TimeProvider: clock})

	job, err := repo.Create(ctx, registerRequest("a,b,c"),
		model.DedupKey(model.BulkJobTypeRegister, 1))
	require.NoError(t, err)

	t.Run("mark in progress", func(t *testing.T) {
		require.NoError(t, repo.MarkInProgress(ctx, job.ID))

		got, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.BulkJobStateInProgress, got.State)
		require.NotNil(t, got.StartedAt)
	})

	t.Run("mark in progress twice fails", func(t *testing.T) {
		err := repo.MarkInProgress(ctx, job.ID)
		require.ErrorIs(t, err, ErrJobNotFound)
	})

	t.Run("complete stores the snapshot", func(t *testing.T) {
		output := json.RawMessage(`{"action_name":"register_students","total":1,"attempted":1,"succeeded":1,"skipped":0,"failed":0,"duration_ms":12}`)
		require.NoError(t, repo.Complete(ctx, job.ID, output))

		got, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.BulkJobStateSuccess, got.State)
		require.NotNil(t, got.EndedAt)
		assert.JSONEq(t, string(output), string(got.Output))
	})

	t.Run("terminal jobs cannot be finished again", func(t *testing.T) {
		err := repo.Fail(ctx, job.ID, json.RawMessage(`{"error_type":"RuntimeError"}`))
		require.ErrorIs(t, err, ErrJobNotFound)
	})

	t.Run("dedup key is free again after the job ended", func(t *testing.T) {
		_, err := repo.Create(ctx, registerRequest("a,b,c"),
			model.DedupKey(model.BulkJobTypeRegister, 1))
		require.NoError(t, err)
	})
}

func TestBulkJobRepo_NextQueued(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	ctx := context.Background()

	t.Run("empty queue", func(t *testing.T) {
		repo := NewBulkJobRepo(db, BulkJobRepoConfig{})
		job, err := repo.NextQueued(ctx)
		require.NoError(t, err)
		assert.Nil(t, job)
	})

	t.Run("oldest job first", func(t *testing.T) {
		clock := NewFixedTimeProvider(time.Date(2026, 5, 10, 3, 0, 0, 0, time.UTC))
		repo := NewBulkJobRepo(db, BulkJobRepoConfig{TimeProvider: clock})

		first, err := repo.Create(ctx, registerRequest("a"),
			model.DedupKey(model.BulkJobTypeRegister, 1))
		require.NoError(t, err)

		clock.AddTime(time.Minute)
		_, err = repo.Create(ctx, registerRequest("b"),
			model.DedupKey(model.BulkJobTypeRegister, 2))
		require.NoError(t, err)

		next, err := repo.NextQueued(ctx)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, first.ID, next.ID)

		// Once the oldest moved on, the next submission surfaces.
		require.NoError(t, repo.MarkInProgress(ctx, first.ID))
		next, err = repo.NextQueued(ctx)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.NotEqual(t, first.ID, next.ID)
	})
}

func TestBulkJobRepo_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := NewBulkJobRepo(db, BulkJobRepoConfig{})

	_, err := repo.GetByID(context.Background(), "11111111-2222-3333-4444-555555555555")
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestBulkJobRepo_Requeue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	ctx := context.Background()
	repo := NewBulkJobRepo(db, BulkJobRepoConfig{})

	failJob := func(t *testing.T, contractID int64) *model.BulkJob {
		t.Helper()
		req := testutil.NewBulkJobRequest().WithContract(contractID).WithLines("a,b,c").Build()
		job, err := repo.Create(ctx, req, model.DedupKey(model.BulkJobTypeRegister, contractID))
		require.NoError(t, err)
		require.NoError(t, repo.MarkInProgress(ctx, job.ID))
		require.NoError(t, repo.Fail(ctx, job.ID, json.RawMessage(`{"error_type":"RuntimeError"}`)))
		return job
	}

	t.Run("moves a failed job back to queuing", func(t *testing.T) {
		job := failJob(t, 1)

		require.NoError(t, repo.Requeue(ctx, job.ID))

		got, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.BulkJobStateQueuing, got.State)
		assert.Nil(t, got.StartedAt)
		assert.Nil(t, got.EndedAt)
		assert.Empty(t, got.Output)
	})

	t.Run("only failed jobs can be requeued", func(t *testing.T) {
		req := testutil.NewBulkJobRequest().WithContract(2).WithLines("a,b,c").Build()
		job, err := repo.Create(ctx, req, model.DedupKey(model.BulkJobTypeRegister, 2))
		require.NoError(t, err)

		require.ErrorIs(t, repo.Requeue(ctx, job.ID), ErrJobNotFound)
	})

	t.Run("rejects requeue while the dedup key is active again", func(t *testing.T) {
		job := failJob(t, 3)

		// A fresh submission took over the key after the failure.
		req := testutil.NewBulkJobRequest().WithContract(3).WithLines("x,y,z").Build()
		_, err := repo.Create(ctx, req, model.DedupKey(model.BulkJobTypeRegister, 3))
		require.NoError(t, err)

		require.ErrorIs(t, repo.Requeue(ctx, job.ID), ErrDuplicateSubmission)
	})
}
