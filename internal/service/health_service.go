package service

import (
	"context"
	"fmt"
	"time"

	"invoicegate/internal/config"
)

const mailNotConfigured = "Not configured"

// MailMonitoring describes the scheduled mailbox sweep.
type MailMonitoring struct {
	Enabled            bool       `json:"enabled"`
	Email              string     `json:"email"`
	DailyCheckTime     string     `json:"daily_check_time"`
	CheckRecentDays    int        `json:"check_recent_days"`
	NextScheduledCheck *time.Time `json:"next_scheduled_check"`
	LastCheck          *time.Time `json:"last_check"`
	LastCheckFound     int        `json:"last_check_found"`
}

// HealthReport is the monitoring probe payload.
type HealthReport struct {
	OK                     bool           `json:"ok"`
	Model                  string         `json:"model"`
	MailMonitoring         MailMonitoring `json:"mail_monitoring"`
	TotalInvoicesProcessed int            `json:"total_invoices_processed"`
	TotalChecksPerformed   int            `json:"total_checks_performed"`
}

// NextRunner reports when the next scheduled sweep fires.
type NextRunner interface {
	NextRun() time.Time
}

// HealthService assembles the monitoring probe.
type HealthService interface {
	Report(ctx context.Context) (*HealthReport, error)
}

type healthService struct {
	jobs      JobStore
	sweeps    SweepService
	scheduler NextRunner
	cfg       *config.Config
}

// NewHealthService creates a HealthService. scheduler is nil when monitoring is disabled.
func NewHealthService(jobs JobStore, sweeps SweepService, scheduler NextRunner, cfg *config.Config) HealthService {
	return &healthService{jobs: jobs, sweeps: sweeps, scheduler: scheduler, cfg: cfg}
}

func (s *healthService) Report(ctx context.Context) (*HealthReport, error) {
	enabled := s.cfg.MonitoringEnabled()
	mm := MailMonitoring{
		Enabled:         enabled,
		Email:           mailNotConfigured,
		DailyCheckTime:  s.cfg.Schedule.DailyCheckTime,
		CheckRecentDays: s.cfg.Mail.CheckRecentDays,
	}
	if enabled {
		mm.Email = s.cfg.Mail.User
		if s.scheduler != nil {
			next := s.scheduler.NextRun()
			mm.NextScheduledCheck = &next
		}
	}

	last, err := s.sweeps.Last(ctx)
	if err != nil {
		return nil, fmt.Errorf("healthService.Report: %w", err)
	}
	if last != nil {
		checked := last.CheckedAt
		mm.LastCheck = &checked
		mm.LastCheckFound = last.InvoicesFound
	}

	_, totalChecks, err := s.sweeps.History(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("healthService.Report: %w", err)
	}
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("healthService.Report: %w", err)
	}

	return &HealthReport{
		OK:                     true,
		Model:                  s.cfg.Parser.Model,
		MailMonitoring:         mm,
		TotalInvoicesProcessed: CountDone(jobs),
		TotalChecksPerformed:   totalChecks,
	}, nil
}
