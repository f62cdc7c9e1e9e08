package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/mocks"
)

type customFieldsFixture struct {
	roster  *mocks.MockRosterRepository
	targets *mocks.MockLineTargetRepository
	worker  *CustomFieldsWorker
}

func newCustomFieldsFixture(t *testing.T, ctrl *gomock.Controller) *customFieldsFixture {
	t.Helper()
	roster := mocks.NewMockRosterRepository(ctrl)
	targets := mocks.NewMockLineTargetRepository(ctrl)
	proc, err := NewLineProcessor(LineProcessorOptions{Targets: targets, Tx: &stubTransactor{}})
	require.NoError(t, err)
	worker, err := NewCustomFieldsWorker(CustomFieldsWorkerOptions{Roster: roster, Processor: proc})
	require.NoError(t, err)
	return &customFieldsFixture{roster: roster, targets: targets, worker: worker}
}

func customFieldsJob() *model.BulkJob {
	return registerJob(registerInput) // same required keys
}

func TestCustomFieldsWorkerRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("updates a defined field", func(t *testing.T) {
		f := newCustomFieldsFixture(t, ctrl)
		f.roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)
		f.targets.EXPECT().ListByJob(gomock.Any(), "job-1").
			Return(lineTargets("job-1", "EXT-1,department,Sales"), nil)
		f.roster.EXPECT().UpdateCustomFieldInTx(gomock.Any(), gomock.Any(), core.UpdateCustomFieldParams{
			ContractID: 7,
			ExternalID: "EXT-1",
			Field:      "department",
			Value:      "Sales",
		}).Return(nil)
		f.targets.EXPECT().Resolve(gomock.Any(), int64(1), nil).Return(nil)

		snap, err := f.worker.Run(context.Background(), customFieldsJob(), "update_custom_fields")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Succeeded)
	})

	t.Run("unknown field is a per line failure", func(t *testing.T) {
		f := newCustomFieldsFixture(t, ctrl)
		f.roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)
		f.targets.EXPECT().ListByJob(gomock.Any(), "job-1").
			Return(lineTargets("job-1", "EXT-1,shoe_size,44"), nil)
		f.roster.EXPECT().UpdateCustomFieldInTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(data.ErrUnknownCustomField)
		f.targets.EXPECT().Resolve(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, message *string) error {
				require.NotNil(t, message)
				assert.Contains(t, *message, `"shoe_size"`)
				return nil
			})

		snap, err := f.worker.Run(context.Background(), customFieldsJob(), "update_custom_fields")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Failed)
	})

	t.Run("wrong column count", func(t *testing.T) {
		f := newCustomFieldsFixture(t, ctrl)
		f.roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)
		f.targets.EXPECT().ListByJob(gomock.Any(), "job-1").
			Return(lineTargets("job-1", "EXT-1,department"), nil)
		f.targets.EXPECT().Resolve(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, message *string) error {
				require.NotNil(t, message)
				assert.Equal(t, "Line 1: expected 3 columns, got 2", *message)
				return nil
			})

		snap, err := f.worker.Run(context.Background(), customFieldsJob(), "update_custom_fields")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Failed)
	})
}
