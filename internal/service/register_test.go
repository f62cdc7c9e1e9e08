package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/mocks"
)

type registerFixture struct {
	roster  *mocks.MockRosterRepository
	targets *mocks.MockLineTargetRepository
	worker  *RegisterWorker
}

func newRegisterFixture(t *testing.T, ctrl *gomock.Controller) *registerFixture {
	t.Helper()
	roster := mocks.NewMockRosterRepository(ctrl)
	targets := mocks.NewMockLineTargetRepository(ctrl)
	proc, err := NewLineProcessor(LineProcessorOptions{Targets: targets, Tx: &stubTransactor{}})
	require.NoError(t, err)
	worker, err := NewRegisterWorker(RegisterWorkerOptions{Roster: roster, Processor: proc})
	require.NoError(t, err)
	return &registerFixture{roster: roster, targets: targets, worker: worker}
}

func registerJob(input string) *model.BulkJob {
	return &model.BulkJob{
		ID:    "job-1",
		Type:  model.BulkJobTypeRegister,
		State: model.BulkJobStateInProgress,
		Input: json.RawMessage(input),
	}
}

func testContract(useLoginCode bool) *model.Contract {
	return &model.Contract{ID: 7, Name: "Acme", Revision: 2, UseLoginCode: useLoginCode}
}

const registerInput = `{"contract_id": 7, "history_id": 3, "contract_rev": 2, "locale": "en"}`

func TestRegisterWorkerInputValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("missing history id", func(t *testing.T) {
		f := newRegisterFixture(t, ctrl)
		// No target expectations: the job aborts before listing lines.
		var inputErr *InputError
		_, err := f.worker.Run(context.Background(),
			registerJob(`{"contract_id": 7}`), "register_students")
		require.ErrorAs(t, err, &inputErr)
	})

	t.Run("contract revision mismatch", func(t *testing.T) {
		f := newRegisterFixture(t, ctrl)
		f.roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)

		_, err := f.worker.Run(context.Background(),
			registerJob(`{"contract_id": 7, "history_id": 3, "contract_rev": 1}`),
			"register_students")
		require.ErrorIs(t, err, ErrContractRevisionMismatch)
	})

	t.Run("unknown contract", func(t *testing.T) {
		f := newRegisterFixture(t, ctrl)
		f.roster.EXPECT().GetContract(gomock.Any(), int64(7)).
			Return(nil, data.ErrContractNotFound)

		var inputErr *InputError
		_, err := f.worker.Run(context.Background(),
			registerJob(registerInput), "register_students")
		require.ErrorAs(t, err, &inputErr)
	})
}

func TestRegisterWorkerHappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newRegisterFixture(t, ctrl)
	f.roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)
	f.targets.EXPECT().ListByJob(gomock.Any(), "job-1").
		Return(lineTargets("job-1", "Taro Yamada,ヤマダタロウ,taro@example.com,EXT-1,10"), nil)

	f.roster.EXPECT().InsertStudentInTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, student *model.Student) error {
			assert.NotEmpty(t, student.ID)
			assert.Equal(t, int64(7), student.ContractID)
			assert.Equal(t, "Taro Yamada", student.Name)
			assert.Equal(t, "taro@example.com", student.Email)
			assert.Equal(t, int64(10), student.CourseID)
			assert.Equal(t, model.StudentStatusActive, student.Status)
			assert.Nil(t, student.LoginCode)
			return nil
		})
	f.targets.EXPECT().Resolve(gomock.Any(), int64(1), nil).Return(nil)

	snap, err := f.worker.Run(context.Background(), registerJob(registerInput), "register_students")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Succeeded)
	assert.Zero(t, snap.Failed)
}

func TestRegisterWorkerLineValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cases := []struct {
		name    string
		line    string
		message string
	}{
		{
			name:    "wrong column count",
			line:    "Taro,ヤマダ,taro@example.com,EXT-1",
			message: "expected 5 columns, got 4",
		},
		{
			name:    "missing name",
			line:    ",ヤマダ,taro@example.com,EXT-1,10",
			message: "name is required",
		},
		{
			name:    "bad email",
			line:    "Taro,ヤマダ,not-an-address,EXT-1,10",
			message: "invalid email address",
		},
		{
			name:    "bad course id",
			line:    "Taro,ヤマダ,taro@example.com,EXT-1,zero",
			message: "invalid course id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRegisterFixture(t, ctrl)
			f.roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)
			f.targets.EXPECT().ListByJob(gomock.Any(), "job-1").
				Return(lineTargets("job-1", tc.line), nil)
			f.targets.EXPECT().Resolve(gomock.Any(), int64(1), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ int64, message *string) error {
					require.NotNil(t, message)
					assert.Equal(t, "Line 1: "+tc.message, *message)
					return nil
				})

			snap, err := f.worker.Run(context.Background(),
				registerJob(registerInput), "register_students")
			require.NoError(t, err)
			assert.Equal(t, 1, snap.Failed)
			assert.Zero(t, snap.Succeeded)
		})
	}
}

func TestRegisterWorkerDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("duplicate email within the upload", func(t *testing.T) {
		f := newRegisterFixture(t, ctrl)
		f.roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)
		f.targets.EXPECT().ListByJob(gomock.Any(), "job-1").
			Return(lineTargets("job-1",
				"Taro,ヤマダ,taro@example.com,EXT-1,10",
				"Jiro,スズキ,taro@example.com,EXT-2,10"), nil)

		f.roster.EXPECT().InsertStudentInTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.targets.EXPECT().Resolve(gomock.Any(), int64(1), nil).Return(nil)
		f.targets.EXPECT().Resolve(gomock.Any(), int64(2), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, message *string) error {
				require.NotNil(t, message)
				assert.Contains(t, *message, "duplicate email within this upload")
				return nil
			})

		snap, err := f.worker.Run(context.Background(),
			registerJob(registerInput), "register_students")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Succeeded)
		assert.Equal(t, 1, snap.Failed)
	})

	t.Run("conflict with existing roster", func(t *testing.T) {
		f := newRegisterFixture(t, ctrl)
		f.roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)
		f.targets.EXPECT().ListByJob(gomock.Any(), "job-1").
			Return(lineTargets("job-1", "Taro,ヤマダ,taro@example.com,EXT-1,10"), nil)

		f.roster.EXPECT().InsertStudentInTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(data.ErrStudentConflict)
		f.targets.EXPECT().Resolve(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, message *string) error {
				require.NotNil(t, message)
				assert.Contains(t, *message, "taro@example.com")
				return nil
			})

		snap, err := f.worker.Run(context.Background(),
			registerJob(registerInput), "register_students")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Failed)
	})

	t.Run("rolled-back line does not reserve its email", func(t *testing.T) {
		roster := mocks.NewMockRosterRepository(ctrl)
		targets := mocks.NewMockLineTargetRepository(ctrl)
		mailer := mocks.NewMockMailer(ctrl)
		session := mocks.NewMockMailSession(ctrl)
		proc, err := NewLineProcessor(LineProcessorOptions{Targets: targets, Tx: &stubTransactor{}})
		require.NoError(t, err)
		worker, err := NewRegisterWorker(RegisterWorkerOptions{
			Roster: roster, Processor: proc, Mailer: mailer,
		})
		require.NoError(t, err)

		roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(false), nil)
		mailer.EXPECT().Open(gomock.Any()).Return(session, nil)
		session.EXPECT().Close().Return(nil)

		// The corrected upload repeats the email on the next line; the
		// first line's failure must not flag it as an in-upload duplicate.
		targets.EXPECT().ListByJob(gomock.Any(), "job-1").
			Return(lineTargets("job-1",
				"Taro,ヤマダ,taro@example.com,EXT-1,10",
				"Taro,ヤマダ,taro@example.com,EXT-1,10"), nil)

		roster.EXPECT().InsertStudentInTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).Times(2)
		gomock.InOrder(
			session.EXPECT().Send(gomock.Any(), "taro@example.com", gomock.Any(), gomock.Any()).
				Return(errors.New("smtp: connection reset")),
			session.EXPECT().Send(gomock.Any(), "taro@example.com", gomock.Any(), gomock.Any()).
				Return(nil),
		)

		targets.EXPECT().SetMessage(gomock.Any(), int64(1),
			"Line 1: processing failed, please retry later").Return(nil)
		targets.EXPECT().Resolve(gomock.Any(), int64(2), nil).Return(nil)

		snap, err := worker.Run(context.Background(),
			registerJob(`{"contract_id": 7, "history_id": 3, "contract_rev": 2, "locale": "en", "send_welcome": true}`),
			"register_students")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Failed)
		assert.Equal(t, 1, snap.Succeeded)
	})
}

func TestRegisterWorkerLoginCodeColumns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newRegisterFixture(t, ctrl)
	f.roster.EXPECT().GetContract(gomock.Any(), int64(7)).Return(testContract(true), nil)
	f.targets.EXPECT().ListByJob(gomock.Any(), "job-1").
		Return(lineTargets("job-1",
			"Taro,ヤマダ,taro@example.com,EXT-1,10,taro01,secretpass"), nil)

	f.roster.EXPECT().InsertStudentInTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, student *model.Student) error {
			require.NotNil(t, student.LoginCode)
			assert.Equal(t, "taro01", *student.LoginCode)
			require.NotNil(t, student.LoginPassword)
			return nil
		})
	f.targets.EXPECT().Resolve(gomock.Any(), int64(1), nil).Return(nil)

	snap, err := f.worker.Run(context.Background(), registerJob(registerInput), "register_students")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Succeeded)
}

func TestSplitLine(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitLine(" a , b ,c"))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, validEmail("taro@example.com"))
	assert.False(t, validEmail("taro@localhost"))
	assert.False(t, validEmail("not-an-address"))
	assert.False(t, validEmail("Taro <taro@example.com>"))
}
