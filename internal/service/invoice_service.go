package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoicegate/internal/domain"
	"invoicegate/internal/logging"
	"invoicegate/internal/normalizer"
	"invoicegate/internal/observability/metrics"
	"invoicegate/internal/parser"
	"invoicegate/internal/port"
	"invoicegate/internal/report"
	"invoicegate/internal/storage/s3"
	"invoicegate/internal/validator"
)

const (
	defaultJobTimeout = 5 * time.Minute

	terminalWriteAttempts       = 3
	terminalWriteTimeout        = 10 * time.Second
	defaultTerminalRetryBackoff = 250 * time.Millisecond
)

// SubmitInput is one PDF entering the pipeline.
type SubmitInput struct {
	PDF          []byte
	Filename     string
	EmailFrom    string
	EmailSubject string
	Source       domain.JobSource
}

// InvoiceService runs PDFs through extraction, verification and approval posting.
type InvoiceService interface {
	// Submit creates a job and processes it in the background.
	Submit(ctx context.Context, input SubmitInput) (*domain.Job, error)
	// Process creates a job and processes it before returning. A nil parser
	// selects the default one. The returned error covers job-store failures
	// only; pipeline failures end in a job with status error.
	Process(ctx context.Context, input SubmitInput, p port.InvoiceParser) (*domain.Job, error)
	// Wait blocks until every background job has reached a terminal state.
	Wait()
}

// ArchiveConfig locates the bucket that receives processed PDFs.
type ArchiveConfig struct {
	Bucket string
	Prefix string
}

// InvoiceServiceDeps groups the collaborators of the pipeline. Storage,
// Inspector, Metrics and Console are optional.
type InvoiceServiceDeps struct {
	Jobs       JobStore
	Parser     port.InvoiceParser
	Engine     *validator.Engine
	Notifier   port.Notifier
	Storage    port.ObjectStorage
	Archive    ArchiveConfig
	Inspector  port.PDFInspector
	Metrics    *metrics.PipelineMetrics
	Console    io.Writer
	Logger     *zap.Logger
	JobTimeout time.Duration
	// RetryBackoff is the pause between attempts to record a job's final state.
	RetryBackoff time.Duration
}

type invoiceService struct {
	deps InvoiceServiceDeps
	log  *zap.Logger
	wg   sync.WaitGroup
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(deps InvoiceServiceDeps) InvoiceService {
	if deps.JobTimeout <= 0 {
		deps.JobTimeout = defaultJobTimeout
	}
	if deps.RetryBackoff <= 0 {
		deps.RetryBackoff = defaultTerminalRetryBackoff
	}
	return &invoiceService{deps: deps, log: logging.Component(deps.Logger, "pipeline")}
}

func (s *invoiceService) Submit(ctx context.Context, input SubmitInput) (*domain.Job, error) {
	job, err := s.create(ctx, input)
	if err != nil {
		return nil, err
	}

	// The request context ends with the HTTP response; the job must outlive it.
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.deps.JobTimeout)
	snapshot := *job
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.run(runCtx, job.ID, input, s.deps.Parser)
	}()
	return &snapshot, nil
}

func (s *invoiceService) Process(ctx context.Context, input SubmitInput, p port.InvoiceParser) (*domain.Job, error) {
	if p == nil {
		p = s.deps.Parser
	}
	job, err := s.create(ctx, input)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.deps.JobTimeout)
	defer cancel()
	s.run(runCtx, job.ID, input, p)

	return s.deps.Jobs.Get(context.WithoutCancel(ctx), job.ID)
}

func (s *invoiceService) Wait() {
	s.wg.Wait()
}

func (s *invoiceService) create(ctx context.Context, input SubmitInput) (*domain.Job, error) {
	if len(input.PDF) == 0 {
		return nil, domain.ErrEmptyPDF
	}
	job := &domain.Job{
		Source:       input.Source,
		Filename:     input.Filename,
		EmailFrom:    input.EmailFrom,
		EmailSubject: input.EmailSubject,
	}
	if err := s.deps.Jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("invoiceService.create: %w", err)
	}
	s.deps.Metrics.StartJob()
	s.log.Info("job created",
		zap.String(logging.FieldJobID, job.ID.String()),
		zap.String("source", string(job.Source)),
		zap.String(logging.FieldFilename, job.Filename),
	)
	return job, nil
}

// run drives one job to exactly one terminal state.
func (s *invoiceService) run(ctx context.Context, jobID uuid.UUID, input SubmitInput, p port.InvoiceParser) {
	start := time.Now()
	log := s.log.With(zap.String(logging.FieldJobID, jobID.String()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panic", zap.Any("panic", r))
			s.fail(ctx, log, jobID, input.Source, start, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if p == nil {
		s.fail(ctx, log, jobID, input.Source, start, domain.ErrParserNotConfigured.Error())
		return
	}

	out, err := p.Parse(ctx, port.ParseInput{
		FileBytes:    input.PDF,
		ContentType:  domain.ContentTypePDF,
		EmailFrom:    input.EmailFrom,
		EmailSubject: input.EmailSubject,
	})
	if err != nil {
		if d, ok := parser.RetryAfter(err); ok {
			log.Warn("extraction rate limited", zap.Duration("retry_after", d))
		}
		s.fail(ctx, log, jobID, input.Source, start, err.Error())
		return
	}

	raw, err := parser.ExtractJSON(out.RawText)
	if err != nil {
		log.Warn("extraction output unusable", zap.String("raw", parser.Truncate(out.RawText, 200)))
		s.fail(ctx, log, jobID, input.Source, start, err.Error())
		return
	}

	invoice := normalizer.Normalize(raw)
	verification := s.deps.Engine.Verify(&invoice)
	s.deps.Metrics.ObserveVerification(verification.AllChecksPassed)
	log.Info("invoice verified",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Bool("all_checks_passed", verification.AllChecksPassed),
		zap.Int("checks_passed", verification.CriticalChecksPassed()),
		zap.Strings("flags", verification.Flags),
		zap.String("model", out.ModelUsed),
	)
	if s.deps.Console != nil {
		if err := report.WriteConsole(s.deps.Console, jobID, &invoice, verification); err != nil {
			log.Warn("console report failed", zap.Error(err))
		}
	}

	completion := domain.Completion{
		Result:       &invoice,
		Verification: verification,
		PageCount:    s.pageCount(log, input.PDF),
		ArchiveKey:   s.archive(ctx, log, jobID, input),
	}
	completion.Notification = s.notify(ctx, log, port.ApprovalRequest{
		JobID:        jobID,
		Invoice:      &invoice,
		Verification: verification,
		PDF:          input.PDF,
		Filename:     input.Filename,
		EmailFrom:    input.EmailFrom,
		EmailSubject: input.EmailSubject,
		ProcessedAt:  time.Now().UTC(),
	})

	err = s.record(ctx, log, func(wctx context.Context) error {
		_, err := s.deps.Jobs.Complete(wctx, jobID, completion)
		return err
	})
	if err != nil {
		log.Error("recording completion failed", zap.Error(err))
		if !errors.Is(err, domain.ErrJobAlreadyTerminal) {
			s.fail(ctx, log, jobID, input.Source, start, "recording result failed: "+err.Error())
		}
		return
	}
	s.deps.Metrics.FinishJob(string(input.Source), string(domain.JobStatusDone), time.Since(start))
	log.Info("job done", zap.Duration("elapsed", time.Since(start)))
}

func (s *invoiceService) fail(ctx context.Context, log *zap.Logger, jobID uuid.UUID, source domain.JobSource, start time.Time, message string) {
	if message == "" {
		message = "Unknown error"
	}
	err := s.record(ctx, log, func(wctx context.Context) error {
		_, err := s.deps.Jobs.Fail(wctx, jobID, message)
		return err
	})
	if err != nil {
		log.Error("recording failure failed; job left in processing", zap.Error(err))
		return
	}
	s.deps.Metrics.FinishJob(string(source), string(domain.JobStatusError), time.Since(start))
	log.Warn("job failed", zap.String("error", message))
}

// record retries a terminal write with a fresh context per attempt. It stops
// early when the job is gone or already terminal.
func (s *invoiceService) record(ctx context.Context, log *zap.Logger, write func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= terminalWriteAttempts; attempt++ {
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), terminalWriteTimeout)
		err = write(wctx)
		cancel()
		if err == nil || errors.Is(err, domain.ErrJobAlreadyTerminal) || errors.Is(err, domain.ErrJobNotFound) {
			return err
		}
		log.Warn("terminal write failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < terminalWriteAttempts {
			time.Sleep(s.deps.RetryBackoff)
		}
	}
	return err
}

func (s *invoiceService) notify(ctx context.Context, log *zap.Logger, req port.ApprovalRequest) *domain.NotificationOutcome {
	if s.deps.Notifier == nil {
		return nil
	}
	result, err := s.deps.Notifier.PostForApproval(ctx, req)
	s.deps.Metrics.ObserveNotification(err)
	if err != nil {
		log.Warn("approval post failed", zap.Error(err))
		return &domain.NotificationOutcome{Success: false, Error: err.Error()}
	}
	return &domain.NotificationOutcome{
		Success:   true,
		Channel:   result.Channel,
		TargetURL: result.TargetURL,
		MessageID: result.MessageID,
	}
}

func (s *invoiceService) pageCount(log *zap.Logger, pdf []byte) int {
	if s.deps.Inspector == nil {
		return 0
	}
	n, err := s.deps.Inspector.PageCount(pdf)
	if err != nil {
		log.Debug("page count unavailable", zap.Error(err))
		return 0
	}
	return n
}

// archive uploads the PDF when storage is configured; failures are logged, not fatal.
func (s *invoiceService) archive(ctx context.Context, log *zap.Logger, jobID uuid.UUID, input SubmitInput) string {
	if s.deps.Storage == nil || s.deps.Archive.Bucket == "" {
		return ""
	}
	key := s3.ObjectKey(s.deps.Archive.Prefix, jobID, input.Filename, time.Now())
	_, err := s.deps.Storage.Upload(ctx, port.UploadInput{
		Bucket:      s.deps.Archive.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.PDF),
		ContentType: domain.ContentTypePDF,
		Size:        int64(len(input.PDF)),
		Metadata: map[string]string{
			"job-id": jobID.String(),
			"source": string(input.Source),
		},
	})
	if err != nil {
		log.Warn("archiving pdf failed", zap.Error(err))
		return ""
	}
	return key
}
