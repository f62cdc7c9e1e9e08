package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/mocks"
)

// stubExtractor decodes the payload as a flat JSON object and returns it
// verbatim, standing in for the JMESPath extractor.
type stubExtractor struct {
	err error
}

func (s *stubExtractor) Extract(payload []byte) (map[string]any, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type aggregatorFixture struct {
	scores  *mocks.MockScoreRepository
	reports *mocks.MockReportStore
	guard   *mocks.MockBatchStatusRepository
	status  *DailyStatusService
}

func newAggregatorFixture(t *testing.T, ctrl *gomock.Controller) *aggregatorFixture {
	t.Helper()
	guard := mocks.NewMockBatchStatusRepository(ctrl)
	clock := data.NewFixedTimeProvider(time.Date(2026, 5, 10, 3, 0, 0, 0, time.UTC))
	return &aggregatorFixture{
		scores:  mocks.NewMockScoreRepository(ctrl),
		reports: mocks.NewMockReportStore(ctrl),
		guard:   guard,
		status:  newTestStatusService(t, guard, clock),
	}
}

func (f *aggregatorFixture) options(extractor FieldExtractor) AggregatorOptions {
	return AggregatorOptions{
		Scores:    f.scores,
		Reports:   f.reports,
		Status:    f.status,
		Extractor: extractor,
	}
}

func scoreDoc(id int64, studentID, payload string) *model.ScoreDocument {
	return &model.ScoreDocument{
		ID:         id,
		ContractID: 1,
		CourseID:   10,
		StudentID:  studentID,
		Payload:    json.RawMessage(payload),
	}
}

func TestNewJMESPathExtractor(t *testing.T) {
	t.Run("valid expressions", func(t *testing.T) {
		ex, err := NewJMESPathExtractor(map[string]string{
			"score": "score",
			"best":  "attempts[-1].score",
		})
		require.NoError(t, err)

		fields, err := ex.Extract([]byte(`{"score": 80, "attempts": [{"score": 70}, {"score": 95}]}`))
		require.NoError(t, err)
		assert.EqualValues(t, 80, fields["score"])
		assert.EqualValues(t, 95, fields["best"])
	})

	t.Run("invalid expression rejected at construction", func(t *testing.T) {
		_, err := NewJMESPathExtractor(map[string]string{"bad": "foo[?"})
		assert.Error(t, err)
	})

	t.Run("empty field map rejected", func(t *testing.T) {
		_, err := NewJMESPathExtractor(nil)
		assert.Error(t, err)
	})
}

func TestScoreAggregatorRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("success folds one row per student", func(t *testing.T) {
		f := newAggregatorFixture(t, ctrl)
		agg, err := NewScoreAggregator(f.options(&stubExtractor{}))
		require.NoError(t, err)

		f.guard.EXPECT().ExistsInWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)

		var states []model.BatchState
		var finished *model.BatchStatus
		f.guard.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, row *model.BatchStatus) error {
				states = append(states, row.State)
				if row.State == model.BatchStateFinished {
					finished = row
				}
				return nil
			}).Times(2)

		f.scores.EXPECT().ListScores(gomock.Any(), int64(1), int64(10), gomock.Any()).
			Return([]*model.ScoreDocument{
				scoreDoc(1, "s-1", `{"score": 50, "completed": false}`),
				scoreDoc(2, "s-2", `{"score": 40}`),
				// Later document for s-1 overwrites score but keeps completed
				// untouched when absent (null fields never overwrite).
				scoreDoc(3, "s-1", `{"score": 90, "completed": null}`),
			}, nil)

		f.reports.EXPECT().WriteRows(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rows []model.ReportRow) error {
				require.Len(t, rows, 2)
				assert.Equal(t, "s-1", rows[0].StudentID)
				assert.EqualValues(t, 90, rows[0].Fields["score"])
				assert.Equal(t, false, rows[0].Fields["completed"])
				assert.Equal(t, "s-2", rows[1].StudentID)
				assert.Equal(t, model.BatchStatusTypeScores, rows[0].Batch)
				return nil
			})

		require.NoError(t, agg.Run(context.Background(), 1, 10, false))
		assert.Equal(t, []model.BatchState{model.BatchStateStarted, model.BatchStateFinished}, states)
		require.NotNil(t, finished)
		require.NotNil(t, finished.Processed)
		assert.Equal(t, 3, *finished.Processed)
	})

	t.Run("already ran today", func(t *testing.T) {
		f := newAggregatorFixture(t, ctrl)
		agg, err := NewScoreAggregator(f.options(&stubExtractor{}))
		require.NoError(t, err)

		f.guard.EXPECT().ExistsInWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true, nil)

		err = agg.Run(context.Background(), 1, 10, false)
		require.ErrorIs(t, err, ErrAlreadyRanToday)
	})

	t.Run("force skips the guard", func(t *testing.T) {
		f := newAggregatorFixture(t, ctrl)
		agg, err := NewScoreAggregator(f.options(&stubExtractor{}))
		require.NoError(t, err)

		f.guard.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(2)
		f.scores.EXPECT().ListScores(gomock.Any(), int64(1), int64(10), gomock.Any()).
			Return(nil, nil)
		f.reports.EXPECT().WriteRows(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, agg.Run(context.Background(), 1, 10, true))
	})

	t.Run("list failure records error with null counts", func(t *testing.T) {
		f := newAggregatorFixture(t, ctrl)
		agg, err := NewScoreAggregator(f.options(&stubExtractor{}))
		require.NoError(t, err)

		f.guard.EXPECT().ExistsInWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.guard.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil) // started
		f.scores.EXPECT().ListScores(gomock.Any(), int64(1), int64(10), gomock.Any()).
			Return(nil, errors.New("connection refused"))
		f.guard.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, row *model.BatchStatus) error {
				assert.Equal(t, model.BatchStateError, row.State)
				assert.Nil(t, row.Processed)
				return nil
			})

		err = agg.Run(context.Background(), 1, 10, false)
		require.Error(t, err)
	})

	t.Run("extract failure records error with processed count", func(t *testing.T) {
		f := newAggregatorFixture(t, ctrl)
		agg, err := NewScoreAggregator(f.options(&stubExtractor{err: errors.New("bad expression")}))
		require.NoError(t, err)

		f.guard.EXPECT().ExistsInWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.guard.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil) // started
		f.scores.EXPECT().ListScores(gomock.Any(), int64(1), int64(10), gomock.Any()).
			Return([]*model.ScoreDocument{scoreDoc(1, "s-1", `{}`)}, nil)
		f.guard.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, row *model.BatchStatus) error {
				assert.Equal(t, model.BatchStateError, row.State)
				require.NotNil(t, row.Processed)
				assert.Equal(t, 1, *row.Processed)
				return nil
			})

		err = agg.Run(context.Background(), 1, 10, false)
		require.Error(t, err)
	})
}

func TestPlaybackAggregatorRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("upstream not finished fails fast", func(t *testing.T) {
		f := newAggregatorFixture(t, ctrl)
		agg, err := NewPlaybackAggregator(f.options(&stubExtractor{}))
		require.NoError(t, err)

		f.guard.EXPECT().ExistsInWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.guard.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil) // started
		// Course 10 finished this morning, course 11 only started.
		f.guard.EXPECT().MostRecentInWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, key model.BatchKey, _, _ time.Time) (*model.BatchStatus, error) {
				require.NotNil(t, key.CourseID)
				if *key.CourseID == 10 {
					return &model.BatchStatus{State: model.BatchStateFinished}, nil
				}
				return &model.BatchStatus{State: model.BatchStateStarted}, nil
			}).Times(2)
		f.guard.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, row *model.BatchStatus) error {
				assert.Equal(t, model.BatchStateError, row.State)
				assert.Nil(t, row.Processed)
				return nil
			})

		err = agg.Run(context.Background(), 1, []int64{10, 11}, false)
		require.ErrorIs(t, err, ErrUpstreamNotFinished)
		assert.Contains(t, err.Error(), "aggregate_scores:1:11")
	})

	t.Run("success after all upstreams finished", func(t *testing.T) {
		f := newAggregatorFixture(t, ctrl)
		agg, err := NewPlaybackAggregator(f.options(&stubExtractor{}))
		require.NoError(t, err)

		f.guard.EXPECT().ExistsInWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.guard.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil) // started
		f.guard.EXPECT().MostRecentInWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&model.BatchStatus{State: model.BatchStateFinished}, nil).Times(2)

		f.scores.EXPECT().ListPlayback(gomock.Any(), int64(1), gomock.Any()).
			Return([]*model.ScoreDocument{
				scoreDoc(1, "s-1", `{"watched_minutes": 42}`),
			}, nil)
		f.reports.EXPECT().WriteRows(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rows []model.ReportRow) error {
				require.Len(t, rows, 1)
				assert.Equal(t, model.BatchStatusTypePlayback, rows[0].Batch)
				assert.Nil(t, rows[0].CourseID)
				return nil
			})
		f.guard.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, row *model.BatchStatus) error {
				assert.Equal(t, model.BatchStateFinished, row.State)
				require.NotNil(t, row.Processed)
				assert.Equal(t, 1, *row.Processed)
				return nil
			})

		require.NoError(t, agg.Run(context.Background(), 1, []int64{10, 11}, false))
	})
}
