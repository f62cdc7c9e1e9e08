package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/classtools/rosterjobs/internal/domain/model"
)

// BulkJobRequestBuilder provides a fluent interface for building
// CreateBulkJobRequest objects for tests.
type BulkJobRequestBuilder struct {
	req *model.CreateBulkJobRequest
}

// NewBulkJobRequest creates a new BulkJobRequestBuilder with sensible defaults.
func NewBulkJobRequest() *BulkJobRequestBuilder {
	return &BulkJobRequestBuilder{
		req: &model.CreateBulkJobRequest{
			Type:  model.BulkJobTypeRegister,
			Input: json.RawMessage(`{"contract_id": 1, "history_id": 1, "contract_rev": 1}`),
			Lines: []string{"taro yamada,,taro@example.com,,"},
		},
	}
}

// WithType sets the job type.
func (b *BulkJobRequestBuilder) WithType(t model.BulkJobType) *BulkJobRequestBuilder {
	b.req.Type = t
	return b
}

// WithInput sets the declared input document.
func (b *BulkJobRequestBuilder) WithInput(input json.RawMessage) *BulkJobRequestBuilder {
	b.req.Input = input
	return b
}

// WithInputString sets the declared input document from a string.
func (b *BulkJobRequestBuilder) WithInputString(input string) *BulkJobRequestBuilder {
	b.req.Input = json.RawMessage(input)
	return b
}

// WithContract sets a minimal input document for the given contract.
func (b *BulkJobRequestBuilder) WithContract(contractID int64) *BulkJobRequestBuilder {
	b.req.Input = json.RawMessage(fmt.Sprintf(
		`{"contract_id": %d, "history_id": 1, "contract_rev": 1}`, contractID))
	return b
}

// WithLines sets the raw payload lines.
func (b *BulkJobRequestBuilder) WithLines(lines ...string) *BulkJobRequestBuilder {
	b.req.Lines = lines
	return b
}

// Build returns the constructed CreateBulkJobRequest.
func (b *BulkJobRequestBuilder) Build() *model.CreateBulkJobRequest {
	return b.req
}
