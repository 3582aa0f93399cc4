package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoicegate/internal/config"
	"invoicegate/internal/domain"
	"invoicegate/internal/logging"
	"invoicegate/internal/observability/metrics"
	"invoicegate/internal/port"
)

// HistoryWindow is the number of sweeps returned by the history endpoint.
const HistoryWindow = 20

const subjectPreviewLen = 30

// SweepOverrides replace the configured mailbox and extraction credentials for one sweep.
type SweepOverrides struct {
	Email       string
	AppPassword string
	APIKey      string
	Model       string
}

// ParserFactory builds an extraction client for per-sweep credential overrides.
type ParserFactory func(cfg *config.ParserConfig) (port.InvoiceParser, error)

// SweepService checks the mailbox for invoice emails and records every sweep.
type SweepService interface {
	Sweep(ctx context.Context, trigger domain.SweepTrigger, overrides SweepOverrides) (*domain.CheckHistoryEntry, error)
	History(ctx context.Context, n int) ([]*domain.CheckHistoryEntry, int, error)
	Last(ctx context.Context) (*domain.CheckHistoryEntry, error)
}

// SweepServiceDeps groups the collaborators of a sweep.
type SweepServiceDeps struct {
	Mailbox       port.Mailbox
	History       port.CheckHistoryRepository
	Invoices      InvoiceService
	ParserFactory ParserFactory
	Mail          config.MailConfig
	Parser        config.ParserConfig
	MaxPDFBytes   int64
	Metrics       *metrics.PipelineMetrics
	Logger        *zap.Logger
	Now           func() time.Time
}

type sweepService struct {
	deps SweepServiceDeps
	log  *zap.Logger
}

// NewSweepService creates a new SweepService.
func NewSweepService(deps SweepServiceDeps) SweepService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &sweepService{deps: deps, log: logging.Component(deps.Logger, "sweep")}
}

// Sweep never fails because of the mailbox or a single message; those problems
// land in the entry's Errors. The returned error covers history persistence only.
func (s *sweepService) Sweep(ctx context.Context, trigger domain.SweepTrigger, overrides SweepOverrides) (*domain.CheckHistoryEntry, error) {
	// A started sweep runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	now := s.deps.Now()
	entry := &domain.CheckHistoryEntry{
		ID:        uuid.New(),
		CheckedAt: now.UTC(),
		Trigger:   trigger,
		Errors:    []string{},
		JobIDs:    []uuid.UUID{},
	}
	log := s.log.With(zap.String(logging.FieldTrigger, string(trigger)), zap.String("sweep_id", entry.ID.String()))
	log.Info("sweep started", zap.Int("check_recent_days", s.deps.Mail.CheckRecentDays))

	s.collect(ctx, log, entry, now, overrides)

	if err := s.deps.History.Append(ctx, entry); err != nil {
		return entry, fmt.Errorf("sweepService.Sweep: %w", err)
	}
	s.deps.Metrics.ObserveSweep(string(trigger), entry.InvoicesFound, entry.InvoicesProcessed, len(entry.Errors))
	log.Info("sweep complete",
		zap.Int("invoices_found", entry.InvoicesFound),
		zap.Int("invoices_processed", entry.InvoicesProcessed),
		zap.Int("errors", len(entry.Errors)),
	)
	return entry, nil
}

func (s *sweepService) collect(ctx context.Context, log *zap.Logger, entry *domain.CheckHistoryEntry, now time.Time, ov SweepOverrides) {
	creds := port.MailboxCredentials{
		Username: firstNonEmpty(ov.Email, s.deps.Mail.User),
		Password: firstNonEmpty(ov.AppPassword, s.deps.Mail.AppPassword),
	}
	if creds.Username == "" || creds.Password == "" {
		entry.Errors = append(entry.Errors, mailCheckError(domain.ErrMailboxNotConfigured))
		return
	}

	p, err := s.parserFor(ov)
	if err != nil {
		entry.Errors = append(entry.Errors, fmt.Sprintf("Parser configuration error: %v", err))
		return
	}

	since := now.AddDate(0, 0, -s.deps.Mail.CheckRecentDays)
	messages, err := s.deps.Mailbox.FetchInvoiceMessages(ctx, creds, since)
	if err != nil {
		log.Warn("mailbox check failed", zap.Error(err))
		entry.Errors = append(entry.Errors, mailCheckError(err))
		return
	}

	for _, msg := range messages {
		entry.InvoicesFound++
		if len(msg.Attachments) == 0 {
			log.Info("invoice email without pdf", zap.String("subject", msg.Subject))
			entry.Errors = append(entry.Errors, "No PDF in email: "+preview(msg.Subject, subjectPreviewLen))
			continue
		}

		for _, att := range msg.Attachments {
			size := att.Size
			if size == 0 {
				size = int64(len(att.Data))
			}
			if s.deps.MaxPDFBytes > 0 && size > s.deps.MaxPDFBytes {
				log.Warn("pdf too large", zap.String(logging.FieldFilename, att.Filename), zap.Int64("bytes", size))
				entry.Errors = append(entry.Errors, "PDF too large: "+att.Filename)
				continue
			}

			job, err := s.deps.Invoices.Process(ctx, SubmitInput{
				PDF:          att.Data,
				Filename:     att.Filename,
				EmailFrom:    msg.From,
				EmailSubject: msg.Subject,
				Source:       entry.Trigger.JobSource(),
			}, p)
			if err != nil {
				log.Error("creating job failed", zap.String(logging.FieldFilename, att.Filename), zap.Error(err))
				entry.Errors = append(entry.Errors, fmt.Sprintf("Job error for %s: %v", att.Filename, err))
				continue
			}
			entry.InvoicesProcessed++
			entry.JobIDs = append(entry.JobIDs, job.ID)
		}
	}
}

// parserFor returns nil to use the pipeline default, or a fresh client built with overrides.
func (s *sweepService) parserFor(ov SweepOverrides) (port.InvoiceParser, error) {
	if ov.APIKey == "" && ov.Model == "" {
		return nil, nil
	}
	if s.deps.ParserFactory == nil {
		return nil, domain.ErrParserNotConfigured
	}
	cfg := s.deps.Parser
	if ov.APIKey != "" {
		cfg.APIKey = ov.APIKey
	}
	if ov.Model != "" {
		cfg.Model = ov.Model
	}
	return s.deps.ParserFactory(&cfg)
}

func (s *sweepService) History(ctx context.Context, n int) ([]*domain.CheckHistoryEntry, int, error) {
	entries, err := s.deps.History.Recent(ctx, n)
	if err != nil {
		return nil, 0, fmt.Errorf("sweepService.History: %w", err)
	}
	total, err := s.deps.History.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("sweepService.History: %w", err)
	}
	return entries, total, nil
}

func (s *sweepService) Last(ctx context.Context) (*domain.CheckHistoryEntry, error) {
	return s.deps.History.Last(ctx)
}

// SweepMessage is the one-line outcome shown to whoever triggered a sweep.
func SweepMessage(entry *domain.CheckHistoryEntry) string {
	return fmt.Sprintf("Checked mailbox: found %d invoice(s), processed %d", entry.InvoicesFound, entry.InvoicesProcessed)
}

func mailCheckError(err error) string {
	return "Mail check error: " + err.Error()
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
