package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/service"
)

func newDailyStatusService(ctx *commandContext, repo *data.BatchStatusRepo) (*service.DailyStatusService, error) {
	loc, err := time.LoadLocation(ctx.Config.Batch.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load batch timezone %q: %w", ctx.Config.Batch.Timezone, err)
	}
	return service.NewDailyStatusService(service.DailyStatusOptions{
		Repo:     repo,
		Location: loc,
		Logger:   ctx.Logger,
	})
}

func runBatchStatuses(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("batch-statuses", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	status, err := newDailyStatusService(ctx, data.NewBatchStatusRepo(db))
	if err != nil {
		return err
	}
	rows, err := status.ListToday(ctx.Ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tCONTRACT\tCOURSE\tSTATE\tPROCESSED\tCREATED")
	for _, row := range rows {
		course := "-"
		if row.CourseID != nil {
			course = strconv.FormatInt(*row.CourseID, 10)
		}
		processed := "-"
		if row.Processed != nil {
			processed = strconv.Itoa(*row.Processed)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			row.Type, row.ContractID, course, row.State, processed,
			row.CreatedAt.Format("15:04:05"))
	}
	return w.Flush()
}

func buildScoreAggregator(ctx *commandContext, db *dbHandles) (*service.ScoreAggregator, error) {
	extractor, err := service.NewJMESPathExtractor(ctx.Config.Batch.ScoreFields)
	if err != nil {
		return nil, err
	}
	return service.NewScoreAggregator(service.AggregatorOptions{
		Scores:    db.scores,
		Reports:   db.reports,
		Status:    db.status,
		Extractor: extractor,
		Logger:    ctx.Logger,
	})
}

func buildPlaybackAggregator(ctx *commandContext, db *dbHandles) (*service.PlaybackAggregator, error) {
	extractor, err := service.NewJMESPathExtractor(ctx.Config.Batch.PlaybackFields)
	if err != nil {
		return nil, err
	}
	return service.NewPlaybackAggregator(service.AggregatorOptions{
		Scores:    db.scores,
		Reports:   db.reports,
		Status:    db.status,
		Extractor: extractor,
		Logger:    ctx.Logger,
	})
}

type dbHandles struct {
	scores  *data.ScoreRepo
	reports *data.ReportRepo
	status  *service.DailyStatusService
}

func openAggregationHandles(ctx *commandContext) (*dbHandles, func(), error) {
	db, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	status, err := newDailyStatusService(ctx, data.NewBatchStatusRepo(db))
	if err != nil {
		closeDB(ctx, db)
		return nil, nil, err
	}
	handles := &dbHandles{
		scores:  data.NewScoreRepo(db),
		reports: data.NewReportRepo(db),
		status:  status,
	}
	return handles, func() { closeDB(ctx, db) }, nil
}

func runAggregateScores(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("aggregate-scores", flag.ContinueOnError)
	contractID := fs.Int64("contract", 0, "contract ID")
	courseID := fs.Int64("course", 0, "course ID")
	force := fs.Bool("force", false, "run again even if the batch already ran today")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *contractID == 0 || *courseID == 0 {
		return errors.New("-contract and -course are required")
	}

	handles, cleanup, err := openAggregationHandles(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	agg, err := buildScoreAggregator(ctx, handles)
	if err != nil {
		return err
	}
	return agg.Run(ctx.Ctx, *contractID, *courseID, *force)
}

func runAggregatePlayback(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("aggregate-playback", flag.ContinueOnError)
	contractID := fs.Int64("contract", 0, "contract ID")
	courses := fs.String("courses", "", "comma-separated course IDs whose score aggregation must have finished")
	force := fs.Bool("force", false, "run again even if the batch already ran today")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *contractID == 0 || *courses == "" {
		return errors.New("-contract and -courses are required")
	}

	courseIDs, err := parseCourseIDs(*courses)
	if err != nil {
		return err
	}

	handles, cleanup, err := openAggregationHandles(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	agg, err := buildPlaybackAggregator(ctx, handles)
	if err != nil {
		return err
	}
	return agg.Run(ctx.Ctx, *contractID, courseIDs, *force)
}

func parseCourseIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid course ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
