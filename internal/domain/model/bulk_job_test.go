package model

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkJobType_Valid(t *testing.T) {
	assert.True(t, BulkJobTypeRegister.Valid())
	assert.True(t, BulkJobTypeUnregister.Valid())
	assert.True(t, BulkJobTypeMask.Valid())
	assert.True(t, BulkJobTypeCustomFields.Valid())
	assert.True(t, BulkJobTypeReminder.Valid())
	assert.False(t, BulkJobType("unknown").Valid())
}

func TestBulkJobType_UnmarshalText(t *testing.T) {
	var jt BulkJobType
	err := jt.UnmarshalText([]byte(" Register_Students "))
	require.NoError(t, err)
	assert.Equal(t, BulkJobTypeRegister, jt)

	err = jt.UnmarshalText([]byte("no_such_job"))
	assert.Error(t, err)
}

func TestBulkJobState_Terminal(t *testing.T) {
	assert.False(t, BulkJobStateQueuing.Terminal())
	assert.False(t, BulkJobStateInProgress.Terminal())
	assert.True(t, BulkJobStateSuccess.Terminal())
	assert.True(t, BulkJobStateFailure.Terminal())
}

func TestCreateBulkJobRequest_Validate(t *testing.T) {
	req := &CreateBulkJobRequest{
		Type:  BulkJobTypeRegister,
		Input: json.RawMessage(`{"contract_id":1,"history_id":2}`),
		Lines: []string{"a,b,c"},
	}
	assert.NoError(t, req.Validate())

	req.Input = nil
	assert.Error(t, req.Validate())

	req.Input = json.RawMessage(`{}`)
	req.Type = BulkJobType("bogus")
	assert.Error(t, req.Validate())
}

func TestDedupKey(t *testing.T) {
	assert.Equal(t, "register_students:42", DedupKey(BulkJobTypeRegister, 42))
}

func TestBatchKey_String(t *testing.T) {
	course := int64(7)
	assert.Equal(t, "aggregate_scores:3:7",
		BatchKey{Type: BatchStatusTypeScores, ContractID: 3, CourseID: &course}.String())
	assert.Equal(t, "aggregate_playback:3",
		BatchKey{Type: BatchStatusTypePlayback, ContractID: 3}.String())
}

func TestSnapshot_Consistent(t *testing.T) {
	s := Snapshot{Attempted: 5, Succeeded: 3, Skipped: 1, Failed: 1}
	assert.True(t, s.Consistent())
	s.Failed = 2
	assert.False(t, s.Consistent())
}

func TestFailure_Bounded(t *testing.T) {
	t.Run("within budget unchanged", func(t *testing.T) {
		f := Failure{ErrorType: "ValidationError", Message: "missing history_id", Trace: "trace"}
		assert.Equal(t, f, f.Bounded())
	})

	t.Run("trace dropped before message", func(t *testing.T) {
		f := Failure{
			ErrorType: "RuntimeError",
			Message:   "short message",
			Trace:     strings.Repeat("x", FailureOutputBudget*2),
		}
		got := f.Bounded()
		assert.Empty(t, got.Trace)
		assert.Equal(t, "short message", got.Message)
	})

	t.Run("message truncated when still over budget", func(t *testing.T) {
		f := Failure{
			ErrorType: "RuntimeError",
			Message:   strings.Repeat("m", FailureOutputBudget*2),
			Trace:     strings.Repeat("x", 100),
		}
		got := f.Bounded()
		assert.Empty(t, got.Trace)
		assert.LessOrEqual(t, len(got.ErrorType)+len(got.Message), FailureOutputBudget)
		assert.NotEmpty(t, got.Message)
	})

	t.Run("truncation never splits a rune", func(t *testing.T) {
		f := Failure{
			ErrorType: "RuntimeError",
			Message:   strings.Repeat("処理に失敗しました。", FailureOutputBudget),
		}
		got := f.Bounded()
		assert.LessOrEqual(t, len(got.ErrorType)+len(got.Message), FailureOutputBudget)
		assert.True(t, utf8.ValidString(got.Message))
		assert.NotContains(t, got.Message, string(utf8.RuneError))
	})
}

func TestFailure_MarshalOutput(t *testing.T) {
	f := Failure{ErrorType: "ValidationError", Message: "bad input"}
	var decoded Failure
	require.NoError(t, json.Unmarshal(f.MarshalOutput(), &decoded))
	assert.Equal(t, f, decoded)
}

func TestDecodeInput_MissingRequiredKeys(t *testing.T) {
	var in RegistrationInput
	err := DecodeInput(json.RawMessage(`{"history_id":5}`), &in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract_id")

	err = DecodeInput(json.RawMessage(`{"contract_id":1,"history_id":5}`), &in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), in.ContractID)
}

func TestDecodeInput_OperationSpecificKeys(t *testing.T) {
	var un UnregistrationInput
	err := DecodeInput(json.RawMessage(`{"contract_id":1,"history_id":5}`), &un)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operator_id")

	var rem ReminderInput
	err = DecodeInput(json.RawMessage(`{"contract_id":1,"history_id":5,"course_id":9}`), &rem)
	assert.NoError(t, err)
}
