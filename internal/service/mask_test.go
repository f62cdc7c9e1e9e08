package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/mocks"
)

func TestMaskWorkerRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	newFixture := func() (*mocks.MockRosterRepository, *mocks.MockLineTargetRepository, *MaskWorker) {
		roster := mocks.NewMockRosterRepository(ctrl)
		targets := mocks.NewMockLineTargetRepository(ctrl)
		proc, err := NewLineProcessor(LineProcessorOptions{Targets: targets, Tx: &stubTransactor{}})
		require.NoError(t, err)
		worker, err := NewMaskWorker(MaskWorkerOptions{Roster: roster, Processor: proc})
		require.NoError(t, err)
		return roster, targets, worker
	}

	// Same input shape as unregistration: common keys plus operator_id.
	job := func() *model.BulkJob {
		j := unregisterJob()
		j.Type = model.BulkJobTypeMask
		return j
	}

	t.Run("masks an active student", func(t *testing.T) {
		roster, targets, worker := newFixture()
		roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)
		targets.EXPECT().ListByJob(gomock.Any(), "job-1").
			Return(lineTargets("job-1", studentID), nil)
		roster.EXPECT().GetStudent(gomock.Any(), int64(7), studentID).
			Return(&model.Student{ID: studentID, Status: model.StudentStatusActive}, nil)
		roster.EXPECT().MaskInTx(gomock.Any(), gomock.Any(), int64(7), studentID).
			Return(true, nil)
		targets.EXPECT().Resolve(gomock.Any(), int64(1), nil).Return(nil)

		snap, err := worker.Run(context.Background(), job(), "mask_personal_data")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Succeeded)
	})

	t.Run("already masked is a skip", func(t *testing.T) {
		roster, targets, worker := newFixture()
		roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)
		targets.EXPECT().ListByJob(gomock.Any(), "job-1").
			Return(lineTargets("job-1", studentID), nil)
		roster.EXPECT().GetStudent(gomock.Any(), int64(7), studentID).
			Return(&model.Student{ID: studentID, Masked: true}, nil)
		targets.EXPECT().Resolve(gomock.Any(), int64(1), gomock.Any()).Return(nil)

		snap, err := worker.Run(context.Background(), job(), "mask_personal_data")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Skipped)
	})

	t.Run("operator masks their own account", func(t *testing.T) {
		roster, targets, worker := newFixture()
		roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)
		targets.EXPECT().ListByJob(gomock.Any(), "job-1").
			Return(lineTargets("job-1", operatorID), nil)
		targets.EXPECT().Resolve(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, message *string) error {
				require.NotNil(t, message)
				assert.Contains(t, *message, "cannot target your own account")
				return nil
			})

		snap, err := worker.Run(context.Background(), job(), "mask_personal_data")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Failed)
	})
}
