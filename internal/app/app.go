// Package app wires configuration into the running pipeline: stores, parser,
// notifier, archive, sweeps and the scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"invoicegate/internal/config"
	"invoicegate/internal/logging"
	"invoicegate/internal/mailbox/imap"
	"invoicegate/internal/notifier"
	"invoicegate/internal/notifier/slack"
	"invoicegate/internal/observability/metrics"
	"invoicegate/internal/parser"
	"invoicegate/internal/parser/claude"
	"invoicegate/internal/parser/gemini"
	"invoicegate/internal/pdfinfo"
	"invoicegate/internal/port"
	"invoicegate/internal/repository/memory"
	"invoicegate/internal/repository/postgres"
	"invoicegate/internal/schedule"
	"invoicegate/internal/service"
	s3storage "invoicegate/internal/storage/s3"
	"invoicegate/internal/validator"
)

func init() {
	parser.RegisterProvider("gemini", gemini.Factory)
	parser.RegisterProvider("claude", claude.Factory)
}

// Options tune how the pipeline reports.
type Options struct {
	// Console receives the per-invoice verification report. Nil disables it.
	Console io.Writer
}

// App holds the wired services.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *metrics.PipelineMetrics
	Jobs      service.JobStore
	Invoices  service.InvoiceService
	Sweeps    service.SweepService
	Health    service.HealthService
	Pinger    port.Pinger
	Scheduler *service.SweepScheduler // nil when monitoring is disabled

	closers []func() error
}

// New builds every component named by cfg.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: log, Metrics: metrics.NewPipelineMetrics()}

	jobRepo, historyRepo, pinger, err := a.stores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Pinger = pinger
	a.Jobs = service.NewJobStore(jobRepo)

	defaultParser, err := a.parser(cfg, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	n, err := notifier.New(ctx, &cfg.Notifier, cfg.Verification.TaxRate, logging.Component(log, "notifier"))
	switch {
	case errors.Is(err, slack.ErrNotConfigured):
		// Jobs still complete; their approval state reads "Not posted".
		log.Warn("approval posting disabled", zap.Error(err))
		n = nil
	case err != nil:
		_ = a.Close()
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	a.Invoices = service.NewInvoiceService(service.InvoiceServiceDeps{
		Jobs:      a.Jobs,
		Parser:    defaultParser,
		Engine:    validator.NewEngine(validator.ExpectationsFromConfig(cfg.Verification)),
		Notifier:  n,
		Storage:   storage,
		Archive:   service.ArchiveConfig{Bucket: cfg.S3.Bucket, Prefix: cfg.S3.Prefix},
		Inspector: pdfinfo.NewInspector(),
		Metrics:   a.Metrics,
		Console:   opts.Console,
		Logger:    log,
	})

	a.Sweeps = service.NewSweepService(service.SweepServiceDeps{
		Mailbox:       imap.NewMailbox(&cfg.Mail, logging.Component(log, "imap")),
		History:       historyRepo,
		Invoices:      a.Invoices,
		ParserFactory: parser.NewParser,
		Mail:          cfg.Mail,
		Parser:        cfg.Parser,
		MaxPDFBytes:   cfg.Upload.MaxBytes(),
		Metrics:       a.Metrics,
		Logger:        log,
	})

	var next service.NextRunner
	if cfg.MonitoringEnabled() {
		at, err := schedule.ParseTimeOfDay(cfg.Schedule.DailyCheckTime)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("invalid schedule.daily_check_time: %w", err)
		}
		loc, err := schedule.LoadLocation(cfg.Schedule.Timezone)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("invalid schedule.timezone: %w", err)
		}
		a.Scheduler = service.NewSweepScheduler(a.Sweeps, at, loc, log)
		next = a.Scheduler
	} else {
		log.Warn("mail monitoring disabled: mail.user, mail.app_password and parser.api_key are required")
	}

	a.Health = service.NewHealthService(a.Jobs, a.Sweeps, next, cfg)
	return a, nil
}

func (a *App) stores(ctx context.Context, cfg *config.Config) (port.JobRepository, port.CheckHistoryRepository, port.Pinger, error) {
	switch strings.ToLower(cfg.Store.Backend) {
	case "postgres":
		db, err := postgres.NewDB(ctx, &cfg.DB)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return postgres.NewJobRepo(db),
			postgres.NewCheckHistoryRepo(db, 0),
			postgres.NewPinger(db),
			nil
	case "memory", "":
		return memory.NewJobRepo(), memory.NewCheckHistoryRepo(0), memory.NewPinger(), nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// parser returns the breaker-wrapped default parser, or nil when no API key is set.
func (a *App) parser(cfg *config.Config, log *zap.Logger) (port.InvoiceParser, error) {
	if cfg.Parser.APIKey == "" {
		log.Warn("parser.api_key not set; jobs will fail until it is configured")
		return nil, nil
	}
	p, err := parser.NewParser(&cfg.Parser)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize parser: %w", err)
	}
	return parser.NewBreakerParser(p, parser.BreakerSettings{
		Name:        cfg.Parser.Provider,
		MaxFailures: uint32(max(cfg.Parser.BreakerMaxFailures, 0)),
		Cooldown:    time.Duration(cfg.Parser.BreakerCooldownSecs) * time.Second,
	}, logging.Component(log, "parser")), nil
}

// Close waits for in-flight jobs and releases the stores.
func (a *App) Close() error {
	if a.Invoices != nil {
		a.Invoices.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
