package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/testutil"
)

func int64Ptr(v int64) *int64 { return &v }

func TestBatchStatusRepo_Append(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	ctx := context.Background()
	repo := NewBatchStatusRepo(db)

	t.Run("assigns id and created_at", func(t *testing.T) {
		row := &model.BatchStatus{
			Type:       model.BatchStatusTypeScores,
			ContractID: 1,
			CourseID:   int64Ptr(10),
			State:      model.BatchStateStarted,
		}
		require.NoError(t, repo.Append(ctx, row))
		assert.NotZero(t, row.ID)
		assert.False(t, row.CreatedAt.IsZero())
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		err := repo.Append(ctx, &model.BatchStatus{
			Type:       "defrag",
			ContractID: 1,
			State:      model.BatchStateStarted,
		})
		require.Error(t, err)
	})

	t.Run("rejects invalid state", func(t *testing.T) {
		err := repo.Append(ctx, &model.BatchStatus{
			Type:       model.BatchStatusTypeScores,
			ContractID: 1,
			State:      "maybe",
		})
		require.Error(t, err)
	})
}

func TestBatchStatusRepo_WindowQueries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	ctx := context.Background()
	repo := NewBatchStatusRepo(db)

	base := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	from, to := base, base.AddDate(0, 0, 1)
	courseKey := model.BatchKey{
		Type:       model.BatchStatusTypeScores,
		ContractID: 1,
		CourseID:   int64Ptr(10),
	}
	contractKey := model.BatchKey{
		Type:       model.BatchStatusTypePlayback,
		ContractID: 1,
	}

	appendAt := func(key model.BatchKey, state model.BatchState, at time.Time) {
		t.Helper()
		require.NoError(t, repo.Append(ctx, &model.BatchStatus{
			Type:       key.Type,
			ContractID: key.ContractID,
			CourseID:   key.CourseID,
			State:      state,
			CreatedAt:  at,
		}))
	}

	// Yesterday's rows must never count toward today.
	appendAt(courseKey, model.BatchStateFinished, base.Add(-2*time.Hour))
	appendAt(courseKey, model.BatchStateStarted, base.Add(1*time.Hour))
	appendAt(courseKey, model.BatchStateFinished, base.Add(2*time.Hour))
	appendAt(contractKey, model.BatchStateStarted, base.Add(3*time.Hour))

	t.Run("exists in window", func(t *testing.T) {
		exists, err := repo.ExistsInWindow(ctx, courseKey, from, to)
		require.NoError(t, err)
		assert.True(t, exists)

		// Same type, different course.
		other := courseKey
		other.CourseID = int64Ptr(11)
		exists, err = repo.ExistsInWindow(ctx, other, from, to)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("window excludes earlier days", func(t *testing.T) {
		exists, err := repo.ExistsInWindow(ctx, courseKey,
			base.AddDate(0, 0, -1), base)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsInWindow(ctx, courseKey,
			base.AddDate(0, 0, 1), base.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("most recent wins", func(t *testing.T) {
		latest, err := repo.MostRecentInWindow(ctx, courseKey, from, to)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, model.BatchStateFinished, latest.State)
	})

	t.Run("nil course key only matches null course rows", func(t *testing.T) {
		latest, err := repo.MostRecentInWindow(ctx, contractKey, from, to)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, model.BatchStatusTypePlayback, latest.Type)
		assert.Nil(t, latest.CourseID)
	})

	t.Run("no rows yields nil", func(t *testing.T) {
		missing := model.BatchKey{Type: model.BatchStatusTypePlayback, ContractID: 99}
		latest, err := repo.MostRecentInWindow(ctx, missing, from, to)
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("list in window is ordered", func(t *testing.T) {
		rows, err := repo.ListInWindow(ctx, from, to)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		for i := 1; i < len(rows); i++ {
			assert.False(t, rows[i].CreatedAt.Before(rows[i-1].CreatedAt))
		}
	})
}
