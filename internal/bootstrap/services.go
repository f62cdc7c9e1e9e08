package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/classtools/rosterjobs/config"
	"github.com/classtools/rosterjobs/internal/adapters/jobrunner"
	"github.com/classtools/rosterjobs/internal/adapters/redisprogress"
	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/mail"
	"github.com/classtools/rosterjobs/internal/service"
)

// Container holds the wired services and repositories the entry points use.
type Container struct {
	Jobs     core.BulkJobRepository
	Targets  core.LineTargetRepository
	Statuses core.BatchStatusRepository
	Roster   core.RosterRepository
	Scores   core.ScoreRepository
	Reports  core.ReportStore
	Progress core.ProgressPublisher

	Submission  *service.SubmissionService
	Status      *service.DailyStatusService
	ScoreAgg    *service.ScoreAggregator
	PlaybackAgg *service.PlaybackAggregator
	Runner      *jobrunner.Runner
}

// BuildContainer wires repositories and services from live connections.
// redisClient may be nil; progress publication is then disabled.
func BuildContainer(
	cfg config.AppConfig,
	db *sql.DB,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
) (*Container, error) {
	c := &Container{
		Jobs:     data.NewBulkJobRepo(db, data.BulkJobRepoConfig{Logger: logger}),
		Targets:  data.NewLineTargetRepo(db),
		Statuses: data.NewBatchStatusRepo(db),
		Roster:   data.NewRosterRepo(db),
		Scores:   data.NewScoreRepo(db),
		Reports:  data.NewReportRepo(db),
	}

	if redisClient != nil {
		progress, err := redisprogress.NewPublisher(redisprogress.Options{
			Client: redisClient,
			TTL:    cfg.Runner.ProgressTTL,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("build progress publisher: %w", err)
		}
		c.Progress = progress
	}

	submission, err := service.NewSubmissionService(service.SubmissionOptions{
		Jobs:   c.Jobs,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build submission service: %w", err)
	}
	c.Submission = submission

	loc, err := time.LoadLocation(cfg.Batch.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load batch timezone %q: %w", cfg.Batch.Timezone, err)
	}
	status, err := service.NewDailyStatusService(service.DailyStatusOptions{
		Repo:     c.Statuses,
		Location: loc,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build daily status service: %w", err)
	}
	c.Status = status

	if err := buildAggregators(cfg, c, logger); err != nil {
		return nil, err
	}
	if err := buildRunner(cfg, db, c, logger); err != nil {
		return nil, err
	}
	return c, nil
}

func buildAggregators(cfg config.AppConfig, c *Container, logger *slog.Logger) error {
	scoreExtractor, err := service.NewJMESPathExtractor(cfg.Batch.ScoreFields)
	if err != nil {
		return fmt.Errorf("build score extractor: %w", err)
	}
	playbackExtractor, err := service.NewJMESPathExtractor(cfg.Batch.PlaybackFields)
	if err != nil {
		return fmt.Errorf("build playback extractor: %w", err)
	}

	c.ScoreAgg, err = service.NewScoreAggregator(service.AggregatorOptions{
		Scores:    c.Scores,
		Reports:   c.Reports,
		Status:    c.Status,
		Extractor: scoreExtractor,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("build score aggregator: %w", err)
	}
	c.PlaybackAgg, err = service.NewPlaybackAggregator(service.AggregatorOptions{
		Scores:    c.Scores,
		Reports:   c.Reports,
		Status:    c.Status,
		Extractor: playbackExtractor,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("build playback aggregator: %w", err)
	}
	return nil
}

func buildRunner(cfg config.AppConfig, db *sql.DB, c *Container, logger *slog.Logger) error {
	processor, err := service.NewLineProcessor(service.LineProcessorOptions{
		Targets:      c.Targets,
		Tx:           data.NewSQLTransactor(db),
		Progress:     c.Progress,
		Logger:       logger,
		PublishEvery: cfg.Runner.PublishEvery,
	})
	if err != nil {
		return fmt.Errorf("build line processor: %w", err)
	}

	var mailer core.Mailer
	if cfg.Mail.Enabled() {
		smtp, merr := mail.NewSMTPMailer(mail.Config{
			Addr:     cfg.Mail.Addr,
			From:     cfg.Mail.From,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			Timeout:  cfg.Mail.Timeout,
		}, logger)
		if merr != nil {
			return fmt.Errorf("build mailer: %w", merr)
		}
		mailer = smtp
	}

	workers, err := buildWorkers(c, processor, mailer, logger)
	if err != nil {
		return err
	}

	executor, err := service.NewRunner(service.RunnerOptions{
		Jobs:     c.Jobs,
		Progress: c.Progress,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("build executor: %w", err)
	}

	c.Runner, err = jobrunner.NewRunner(jobrunner.Options{
		Jobs:     c.Jobs,
		Executor: executor,
		Workers:  workers,
		Interval: cfg.Runner.PollInterval,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("build job runner: %w", err)
	}
	return nil
}

func buildWorkers(
	c *Container,
	processor *service.LineProcessor,
	mailer core.Mailer,
	logger *slog.Logger,
) (map[model.BulkJobType]core.LineWorker, error) {
	register, err := service.NewRegisterWorker(service.RegisterWorkerOptions{
		Roster:    c.Roster,
		Processor: processor,
		Mailer:    mailer,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build register worker: %w", err)
	}
	unregister, err := service.NewUnregisterWorker(service.UnregisterWorkerOptions{
		Roster:    c.Roster,
		Processor: processor,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build unregister worker: %w", err)
	}
	mask, err := service.NewMaskWorker(service.MaskWorkerOptions{
		Roster:    c.Roster,
		Processor: processor,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build mask worker: %w", err)
	}
	customFields, err := service.NewCustomFieldsWorker(service.CustomFieldsWorkerOptions{
		Roster:    c.Roster,
		Processor: processor,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build custom fields worker: %w", err)
	}

	workers := map[model.BulkJobType]core.LineWorker{
		model.BulkJobTypeRegister:     register,
		model.BulkJobTypeUnregister:   unregister,
		model.BulkJobTypeMask:         mask,
		model.BulkJobTypeCustomFields: customFields,
	}

	// Reminder mail needs an SMTP endpoint; without one the runner simply
	// has no worker for the type and fails such jobs at dispatch.
	if mailer != nil {
		reminder, rerr := service.NewReminderWorker(service.ReminderWorkerOptions{
			Roster:    c.Roster,
			Processor: processor,
			Mailer:    mailer,
			Logger:    logger,
		})
		if rerr != nil {
			return nil, fmt.Errorf("build reminder worker: %w", rerr)
		}
		workers[model.BulkJobTypeReminder] = reminder
	}

	return workers, nil
}
