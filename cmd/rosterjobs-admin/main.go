// Command rosterjobs-admin provides back-office maintenance commands for the
// bulk job engine: submitting and inspecting jobs, checking daily batch
// statuses, and running the nightly aggregations by hand.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/classtools/rosterjobs/config"
	"github.com/classtools/rosterjobs/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrate,
		},
		"submit-job": {
			name:        "submit-job",
			description: "Submit a bulk job from an input document and a lines file",
			run:         runSubmitJob,
		},
		"list-jobs": {
			name:        "list-jobs",
			description: "List recent bulk jobs",
			run:         runListJobs,
		},
		"show-job": {
			name:        "show-job",
			description: "Show one bulk job with its per-line outcomes",
			run:         runShowJob,
		},
		"requeue-job": {
			name:        "requeue-job",
			description: "Move a failed bulk job back to the queue",
			run:         runRequeueJob,
		},
		"batch-statuses": {
			name:        "batch-statuses",
			description: "Show today's batch status rows",
			run:         runBatchStatuses,
		},
		"aggregate-scores": {
			name:        "aggregate-scores",
			description: "Run the nightly score aggregation for one contract and course",
			run:         runAggregateScores,
		},
		"seed-dev": {
			name:        "seed-dev",
			description: "Seed a development database with contracts, students, and score documents",
			run:         runSeedDev,
		},
		"aggregate-playback": {
			name:        "aggregate-playback",
			description: "Run the nightly playback aggregation for one contract",
			run:         runAggregatePlayback,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stderr, "usage: rosterjobs-admin <command> [flags]\n\ncommands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(os.Stderr, "  %-20s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
