package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
)

// ErrDuplicateSubmission is returned when a job of the same type is already
// waiting or running for the same contract.
var ErrDuplicateSubmission = errors.New("a job of this type is already queued or running for this contract")

// SubmissionOptions groups dependencies for NewSubmissionService.
type SubmissionOptions struct {
	Jobs   core.BulkJobRepository // Required: job persistence
	Logger *slog.Logger           // Optional: structured logger
}

// SubmissionService accepts new bulk jobs. The same contract can have at
// most one job of a given type waiting or running at a time.
type SubmissionService struct {
	jobs   core.BulkJobRepository
	logger *slog.Logger
}

// NewSubmissionService constructs a new SubmissionService.
func NewSubmissionService(opts SubmissionOptions) (*SubmissionService, error) {
	if opts.Jobs == nil {
		return nil, errors.New("BulkJobRepository is required")
	}
	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "submission_service")
	}
	return &SubmissionService{jobs: opts.Jobs, logger: logger}, nil
}

// MustNewSubmissionService is like NewSubmissionService but panics on error.
func MustNewSubmissionService(opts SubmissionOptions) *SubmissionService {
	s, err := NewSubmissionService(opts)
	if err != nil {
		panic(err)
	}
	return s
}

// Submit validates the request, derives its dedup key from the job type and
// contract, and persists the job in state Queuing with one target per line.
func (s *SubmissionService) Submit(ctx context.Context, req *model.CreateBulkJobRequest) (*model.BulkJob, error) {
	if err := req.Validate(); err != nil {
		return nil, NewInputError(err)
	}

	var in model.JobInput
	if err := json.Unmarshal(req.Input, &in); err != nil {
		return nil, NewInputError(fmt.Errorf("decode input: %w", err))
	}
	if in.ContractID == 0 {
		return nil, NewInputError(errors.New("contract_id is required"))
	}

	job, err := s.jobs.Create(ctx, req, model.DedupKey(req.Type, in.ContractID))
	if err != nil {
		if errors.Is(err, data.ErrDuplicateSubmission) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSubmission, model.DedupKey(req.Type, in.ContractID))
		}
		return nil, fmt.Errorf("create bulk job: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "bulk job accepted",
			"job_id", job.ID, "type", string(job.Type), "lines", len(req.Lines))
	}
	return job, nil
}
