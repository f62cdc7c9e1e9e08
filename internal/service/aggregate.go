package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/domain/model"
)

// FieldExtractor evaluates configured expressions against one score
// document payload. The default implementation compiles JMESPath
// expressions; tests substitute a stub.
type FieldExtractor interface {
	Extract(payload []byte) (map[string]any, error)
}

// jmespathExtractor extracts report fields with JMESPath expressions, one
// per output field. Expressions are validated at construction.
type jmespathExtractor struct {
	exprs map[string]string
}

// NewJMESPathExtractor validates fieldName -> expression pairs and returns
// a FieldExtractor over them.
func NewJMESPathExtractor(fields map[string]string) (FieldExtractor, error) {
	if len(fields) == 0 {
		return nil, errors.New("at least one field expression is required")
	}
	exprs := make(map[string]string, len(fields))
	for name, expr := range fields {
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, fmt.Errorf("compile field %q: %w", name, err)
		}
		exprs[name] = expr
	}
	return &jmespathExtractor{exprs: exprs}, nil
}

func (e *jmespathExtractor) Extract(payload []byte) (map[string]any, error) {
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	out := make(map[string]any, len(e.exprs))
	for name, expr := range e.exprs {
		v, err := jmespath.Search(expr, doc)
		if err != nil {
			return nil, fmt.Errorf("extract field %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// AggregatorOptions groups dependencies shared by the nightly aggregations.
type AggregatorOptions struct {
	Scores    core.ScoreRepository // Required: raw document source
	Reports   core.ReportStore     // Required: reporting sink
	Status    *DailyStatusService  // Required: daily batch status guard
	Extractor FieldExtractor       // Required: payload field extraction
	Logger    *slog.Logger         // Optional: structured logger
}

func (o *AggregatorOptions) validate() error {
	if o.Scores == nil {
		return errors.New("ScoreRepository is required")
	}
	if o.Reports == nil {
		return errors.New("ReportStore is required")
	}
	if o.Status == nil {
		return errors.New("DailyStatusService is required")
	}
	if o.Extractor == nil {
		return errors.New("FieldExtractor is required")
	}
	return nil
}

// ScoreAggregator is the upstream nightly batch: it folds raw score
// documents for one contract and course into one report row per student.
type ScoreAggregator struct {
	scores    core.ScoreRepository
	reports   core.ReportStore
	status    *DailyStatusService
	extractor FieldExtractor
	logger    *slog.Logger
}

// NewScoreAggregator constructs a new ScoreAggregator.
func NewScoreAggregator(opts AggregatorOptions) (*ScoreAggregator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "score_aggregator")
	}
	return &ScoreAggregator{
		scores:    opts.Scores,
		reports:   opts.Reports,
		status:    opts.Status,
		extractor: opts.Extractor,
		logger:    logger,
	}, nil
}

// Run executes one guarded aggregation for (contractID, courseID). Unless
// forced, a second run the same calendar day returns ErrAlreadyRanToday
// without doing any work. A Started row is appended before aggregation and
// exactly one of Finished or Error after.
func (a *ScoreAggregator) Run(ctx context.Context, contractID, courseID int64, force bool) error {
	key := model.BatchKey{Type: model.BatchStatusTypeScores, ContractID: contractID, CourseID: &courseID}

	if !force {
		exists, err := a.status.ExistsToday(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrAlreadyRanToday, key)
		}
	}

	if err := a.status.SaveStarted(ctx, key); err != nil {
		return err
	}

	processed, err := a.aggregate(ctx, key, contractID, courseID)
	if err != nil {
		if saveErr := a.status.SaveError(ctx, key, model.BatchCounts{Processed: processed}); saveErr != nil && a.logger != nil {
			a.logger.ErrorContext(ctx, "record error status failed", "key", key.String(), "error", saveErr)
		}
		return fmt.Errorf("aggregate scores for %s: %w", key, err)
	}

	if err := a.status.SaveFinished(ctx, key, model.BatchCounts{Processed: processed}); err != nil {
		return err
	}
	if a.logger != nil {
		a.logger.InfoContext(ctx, "score aggregation finished",
			"key", key.String(), "processed", *processed)
	}
	return nil
}

// aggregate returns the processed document count; the pointer stays nil
// until the documents were at least listed, so an early abort records null
// counts.
func (a *ScoreAggregator) aggregate(
	ctx context.Context,
	key model.BatchKey,
	contractID, courseID int64,
) (*int, error) {
	docs, err := a.scores.ListScores(ctx, contractID, courseID, a.status.Today())
	if err != nil {
		return nil, err
	}
	processed := len(docs)

	rows, err := foldDocuments(foldParams{
		docs:       docs,
		extractor:  a.extractor,
		batch:      key.Type,
		contractID: contractID,
		courseID:   &courseID,
		reportDate: a.status.Today(),
	})
	if err != nil {
		return &processed, err
	}
	if err := a.reports.WriteRows(ctx, rows); err != nil {
		return &processed, err
	}
	return &processed, nil
}

// PlaybackAggregator is the downstream nightly batch: it folds playback
// documents for one contract, but only after every upstream score
// aggregation for the contract's courses finished today.
type PlaybackAggregator struct {
	scores    core.ScoreRepository
	reports   core.ReportStore
	status    *DailyStatusService
	extractor FieldExtractor
	logger    *slog.Logger
}

// NewPlaybackAggregator constructs a new PlaybackAggregator.
func NewPlaybackAggregator(opts AggregatorOptions) (*PlaybackAggregator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "playback_aggregator")
	}
	return &PlaybackAggregator{
		scores:    opts.Scores,
		reports:   opts.Reports,
		status:    opts.Status,
		extractor: opts.Extractor,
		logger:    logger,
	}, nil
}

// Run executes one guarded playback aggregation for contractID. courseIDs
// are the contract's courses whose score aggregation must have finished
// today; when any has not, the run fails with ErrUpstreamNotFinished and
// records its own Error row with null counts.
func (a *PlaybackAggregator) Run(
	ctx context.Context,
	contractID int64,
	courseIDs []int64,
	force bool,
) error {
	key := model.BatchKey{Type: model.BatchStatusTypePlayback, ContractID: contractID}

	if !force {
		exists, err := a.status.ExistsToday(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrAlreadyRanToday, key)
		}
	}

	if err := a.status.SaveStarted(ctx, key); err != nil {
		return err
	}

	processed, err := a.aggregate(ctx, key, contractID, courseIDs)
	if err != nil {
		if saveErr := a.status.SaveError(ctx, key, model.BatchCounts{Processed: processed}); saveErr != nil && a.logger != nil {
			a.logger.ErrorContext(ctx, "record error status failed", "key", key.String(), "error", saveErr)
		}
		return fmt.Errorf("aggregate playback for %s: %w", key, err)
	}

	if err := a.status.SaveFinished(ctx, key, model.BatchCounts{Processed: processed}); err != nil {
		return err
	}
	if a.logger != nil {
		a.logger.InfoContext(ctx, "playback aggregation finished",
			"key", key.String(), "processed", *processed)
	}
	return nil
}

func (a *PlaybackAggregator) aggregate(
	ctx context.Context,
	key model.BatchKey,
	contractID int64,
	courseIDs []int64,
) (*int, error) {
	for _, courseID := range courseIDs {
		course := courseID
		upstream := model.BatchKey{
			Type:       model.BatchStatusTypeScores,
			ContractID: contractID,
			CourseID:   &course,
		}
		finished, err := a.status.FinishedToday(ctx, upstream)
		if err != nil {
			return nil, err
		}
		if !finished {
			return nil, fmt.Errorf("%w: %s", ErrUpstreamNotFinished, upstream)
		}
	}

	docs, err := a.scores.ListPlayback(ctx, contractID, a.status.Today())
	if err != nil {
		return nil, err
	}
	processed := len(docs)

	rows, err := foldDocuments(foldParams{
		docs:       docs,
		extractor:  a.extractor,
		batch:      key.Type,
		contractID: contractID,
		reportDate: a.status.Today(),
	})
	if err != nil {
		return &processed, err
	}
	if err := a.reports.WriteRows(ctx, rows); err != nil {
		return &processed, err
	}
	return &processed, nil
}

type foldParams struct {
	docs       []*model.ScoreDocument
	extractor  FieldExtractor
	batch      model.BatchStatusType
	contractID int64
	courseID   *int64
	reportDate time.Time
}

// foldDocuments reduces raw documents to one report row per student. When a
// student has several documents, fields extracted from a later recording
// overwrite earlier ones.
func foldDocuments(p foldParams) ([]model.ReportRow, error) {
	byStudent := make(map[string]map[string]any)
	order := make([]string, 0, len(p.docs))
	for _, doc := range p.docs {
		fields, err := p.extractor.Extract(doc.Payload)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", doc.ID, err)
		}
		merged, ok := byStudent[doc.StudentID]
		if !ok {
			merged = make(map[string]any, len(fields))
			byStudent[doc.StudentID] = merged
			order = append(order, doc.StudentID)
		}
		for name, v := range fields {
			if v != nil {
				merged[name] = v
			}
		}
	}

	rows := make([]model.ReportRow, 0, len(order))
	for _, studentID := range order {
		rows = append(rows, model.ReportRow{
			ContractID: p.contractID,
			CourseID:   p.courseID,
			StudentID:  studentID,
			Batch:      p.batch,
			Fields:     byStudent[studentID],
			ReportDate: p.reportDate,
		})
	}
	return rows, nil
}
