package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/service"
)

func runSubmitJob(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("submit-job", flag.ContinueOnError)
	jobType := fs.String("type", "", "job type (register_students, unregister_students, mask_personal_data, update_custom_fields, send_reminder_mail)")
	inputPath := fs.String("input", "", "path to the JSON input document")
	linesPath := fs.String("lines", "", "path to the payload lines file, one line per target")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *jobType == "" || *inputPath == "" || *linesPath == "" {
		return errors.New("-type, -input and -lines are required")
	}

	input, err := os.ReadFile(*inputPath)
	if err != nil {
		return fmt.Errorf("read input document: %w", err)
	}
	if !json.Valid(input) {
		return fmt.Errorf("input document %s is not valid JSON", *inputPath)
	}
	lines, err := readLines(*linesPath)
	if err != nil {
		return err
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	submission, err := service.NewSubmissionService(service.SubmissionOptions{
		Jobs:   data.NewBulkJobRepo(db, data.BulkJobRepoConfig{Logger: ctx.Logger}),
		Logger: ctx.Logger,
	})
	if err != nil {
		return err
	}

	job, err := submission.Submit(ctx.Ctx, &model.CreateBulkJobRequest{
		Type:  model.BulkJobType(*jobType),
		Input: json.RawMessage(input),
		Lines: lines,
	})
	if err != nil {
		return err
	}
	return writef(os.Stdout, "submitted job %s (%s, %d lines)\n", job.ID, job.Type, len(lines))
}

// readLines reads payload lines verbatim. Blank lines are kept so line
// numbers in outcome messages match the uploaded file.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lines file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines file: %w", err)
	}
	if len(lines) == 0 {
		return nil, errors.New("lines file is empty")
	}
	return lines, nil
}

func runRequeueJob(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("requeue-job", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: requeue-job <job-id>")
	}
	jobID := fs.Arg(0)

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	repo := data.NewBulkJobRepo(db, data.BulkJobRepoConfig{Logger: ctx.Logger})
	if err := repo.Requeue(ctx.Ctx, jobID); err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return fmt.Errorf("job %s is not in state failure (or does not exist)", jobID)
		}
		return err
	}
	return writef(os.Stdout, "requeued job %s\n", jobID)
}

func runListJobs(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-jobs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum number of jobs to show")
	offset := fs.Int("offset", 0, "number of jobs to skip")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	repo := data.NewBulkJobRepo(db, data.BulkJobRepoConfig{Logger: ctx.Logger})
	jobs, err := repo.List(ctx.Ctx, *limit, *offset)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATE\tCREATED\tENDED")
	for _, job := range jobs {
		ended := "-"
		if job.EndedAt != nil {
			ended = job.EndedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			job.ID, job.Type, job.State,
			job.CreatedAt.Format("2006-01-02 15:04:05"), ended)
	}
	return w.Flush()
}

func runShowJob(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("show-job", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: show-job <job-id>")
	}
	jobID := fs.Arg(0)

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	jobs := data.NewBulkJobRepo(db, data.BulkJobRepoConfig{Logger: ctx.Logger})
	job, err := jobs.GetByID(ctx.Ctx, jobID)
	if err != nil {
		return err
	}

	if err := writef(os.Stdout, "id:      %s\ntype:    %s\nstate:   %s\ncreated: %s\n",
		job.ID, job.Type, job.State, job.CreatedAt.Format("2006-01-02 15:04:05")); err != nil {
		return err
	}
	if len(job.Output) > 0 {
		if err := writef(os.Stdout, "output:  %s\n", string(job.Output)); err != nil {
			return err
		}
	}

	targets, err := data.NewLineTargetRepo(db).ListByJob(ctx.Ctx, jobID)
	if err != nil {
		return err
	}
	if err := writef(os.Stdout, "\n"); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tCOMPLETED\tMESSAGE")
	for _, t := range targets {
		msg := ""
		if t.Message != nil {
			msg = *t.Message
		}
		fmt.Fprintf(w, "%d\t%t\t%s\n", t.LineNo, t.Completed, msg)
	}
	return w.Flush()
}
