package jobrunner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/mocks"
	"github.com/classtools/rosterjobs/internal/service"
)

func queuedJob(id string, jobType model.BulkJobType) *model.BulkJob {
	return &model.BulkJob{
		ID:    id,
		Type:  jobType,
		State: model.BulkJobStateQueuing,
		Input: json.RawMessage(`{"contract_id": 1, "history_id": 1}`),
	}
}

func workerMap(w core.LineWorker) map[model.BulkJobType]core.LineWorker {
	return map[model.BulkJobType]core.LineWorker{model.BulkJobTypeRegister: w}
}

func TestNewRunner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockBulkJobRepository(ctrl)
	executor := service.MustNewRunner(service.RunnerOptions{Jobs: jobs})

	t.Run("missing workers", func(t *testing.T) {
		_, err := NewRunner(Options{Jobs: jobs, Executor: executor})
		assert.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		r, err := NewRunner(Options{
			Jobs:     jobs,
			Executor: executor,
			Workers:  workerMap(mocks.NewMockLineWorker(ctrl)),
		})
		require.NoError(t, err)
		assert.NotNil(t, r)
	})
}

func TestRunnerRunOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("empty queue", func(t *testing.T) {
		jobs := mocks.NewMockBulkJobRepository(ctrl)
		jobs.EXPECT().NextQueued(gomock.Any()).Return(nil, nil)

		r, err := NewRunner(Options{
			Jobs:     jobs,
			Executor: service.MustNewRunner(service.RunnerOptions{Jobs: jobs}),
			Workers:  workerMap(mocks.NewMockLineWorker(ctrl)),
		})
		require.NoError(t, err)

		processed, err := r.RunOnce(context.Background())
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("dispatches to the registered worker", func(t *testing.T) {
		jobs := mocks.NewMockBulkJobRepository(ctrl)
		worker := mocks.NewMockLineWorker(ctrl)
		job := queuedJob("job-1", model.BulkJobTypeRegister)

		jobs.EXPECT().NextQueued(gomock.Any()).Return(job, nil)
		jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(job, nil)
		jobs.EXPECT().MarkInProgress(gomock.Any(), "job-1").Return(nil)
		worker.EXPECT().Run(gomock.Any(), job, "register_students").
			Return(model.Snapshot{ActionName: "register_students"}, nil)
		jobs.EXPECT().Complete(gomock.Any(), "job-1", gomock.Any()).Return(nil)

		r, err := NewRunner(Options{
			Jobs:     jobs,
			Executor: service.MustNewRunner(service.RunnerOptions{Jobs: jobs}),
			Workers:  workerMap(worker),
		})
		require.NoError(t, err)

		processed, err := r.RunOnce(context.Background())
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("unregistered type fails the job", func(t *testing.T) {
		jobs := mocks.NewMockBulkJobRepository(ctrl)
		job := queuedJob("job-2", model.BulkJobTypeReminder)

		jobs.EXPECT().NextQueued(gomock.Any()).Return(job, nil)

		var persisted json.RawMessage
		jobs.EXPECT().Fail(gomock.Any(), "job-2", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, output json.RawMessage) error {
				persisted = output
				return nil
			})

		r, err := NewRunner(Options{
			Jobs:     jobs,
			Executor: service.MustNewRunner(service.RunnerOptions{Jobs: jobs}),
			Workers:  workerMap(mocks.NewMockLineWorker(ctrl)),
		})
		require.NoError(t, err)

		processed, err := r.RunOnce(context.Background())
		assert.True(t, processed)
		require.Error(t, err)

		var failure model.Failure
		require.NoError(t, json.Unmarshal(persisted, &failure))
		assert.Equal(t, "UnsupportedJobType", failure.ErrorType)
		assert.Contains(t, failure.Message, "send_reminder_mail")
	})

	t.Run("execution failure does not stop the runner", func(t *testing.T) {
		jobs := mocks.NewMockBulkJobRepository(ctrl)
		worker := mocks.NewMockLineWorker(ctrl)
		job := queuedJob("job-3", model.BulkJobTypeRegister)

		jobs.EXPECT().NextQueued(gomock.Any()).Return(job, nil)
		jobs.EXPECT().GetByID(gomock.Any(), "job-3").Return(job, nil)
		jobs.EXPECT().MarkInProgress(gomock.Any(), "job-3").Return(nil)
		worker.EXPECT().Run(gomock.Any(), job, "register_students").
			Return(model.Snapshot{}, service.NewInputError(errors.New("bad input")))
		jobs.EXPECT().Fail(gomock.Any(), "job-3", gomock.Any()).Return(nil)

		r, err := NewRunner(Options{
			Jobs:     jobs,
			Executor: service.MustNewRunner(service.RunnerOptions{Jobs: jobs}),
			Workers:  workerMap(worker),
		})
		require.NoError(t, err)

		processed, err := r.RunOnce(context.Background())
		require.NoError(t, err)
		assert.True(t, processed)
	})
}

func TestActionNamesCoverAllTypes(t *testing.T) {
	for _, jt := range []model.BulkJobType{
		model.BulkJobTypeRegister,
		model.BulkJobTypeUnregister,
		model.BulkJobTypeMask,
		model.BulkJobTypeCustomFields,
		model.BulkJobTypeReminder,
	} {
		assert.NotEmpty(t, ActionNames[jt], string(jt))
	}
}
