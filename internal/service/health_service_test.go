package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicegate/internal/config"
	"invoicegate/internal/domain"
	"invoicegate/internal/service"
	"invoicegate/mocks"
)

type fixedNext time.Time

func (f fixedNext) NextRun() time.Time { return time.Time(f) }

func healthConfig(user, pass, key string) *config.Config {
	return &config.Config{
		Parser:   config.ParserConfig{Model: "gemini-2.5-flash", APIKey: key},
		Mail:     config.MailConfig{User: user, AppPassword: pass, CheckRecentDays: 7},
		Schedule: config.ScheduleConfig{DailyCheckTime: "14:00"},
	}
}

func TestHealthService_Report(t *testing.T) {
	jobs := new(mocks.MockJobStore)
	sweeps := new(mocks.MockSweepService)

	checked := time.Date(2025, 7, 1, 14, 0, 3, 0, time.UTC)
	next := time.Date(2025, 7, 2, 14, 0, 0, 0, time.UTC)
	jobs.On("List", mock.Anything).Return([]*domain.Job{
		{ID: uuid.New(), Status: domain.JobStatusDone},
		{ID: uuid.New(), Status: domain.JobStatusError},
		{ID: uuid.New(), Status: domain.JobStatusDone},
	}, nil)
	sweeps.On("Last", mock.Anything).Return(&domain.CheckHistoryEntry{CheckedAt: checked, InvoicesFound: 3}, nil)
	sweeps.On("History", mock.Anything, 1).Return([]*domain.CheckHistoryEntry{}, 12, nil)

	svc := service.NewHealthService(jobs, sweeps, fixedNext(next), healthConfig("ap@example.com", "pw", "key"))
	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.True(t, report.OK)
	assert.Equal(t, "gemini-2.5-flash", report.Model)
	assert.True(t, report.MailMonitoring.Enabled)
	assert.Equal(t, "ap@example.com", report.MailMonitoring.Email)
	assert.Equal(t, "14:00", report.MailMonitoring.DailyCheckTime)
	require.NotNil(t, report.MailMonitoring.NextScheduledCheck)
	assert.Equal(t, next, *report.MailMonitoring.NextScheduledCheck)
	require.NotNil(t, report.MailMonitoring.LastCheck)
	assert.Equal(t, checked, *report.MailMonitoring.LastCheck)
	assert.Equal(t, 3, report.MailMonitoring.LastCheckFound)
	assert.Equal(t, 2, report.TotalInvoicesProcessed)
	assert.Equal(t, 12, report.TotalChecksPerformed)
}

func TestHealthService_Report_MonitoringDisabled(t *testing.T) {
	jobs := new(mocks.MockJobStore)
	sweeps := new(mocks.MockSweepService)
	jobs.On("List", mock.Anything).Return([]*domain.Job{}, nil)
	sweeps.On("Last", mock.Anything).Return(nil, nil)
	sweeps.On("History", mock.Anything, 1).Return([]*domain.CheckHistoryEntry{}, 0, nil)

	svc := service.NewHealthService(jobs, sweeps, nil, healthConfig("", "", ""))
	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.False(t, report.MailMonitoring.Enabled)
	assert.Equal(t, "Not configured", report.MailMonitoring.Email)
	assert.Nil(t, report.MailMonitoring.NextScheduledCheck)
	assert.Nil(t, report.MailMonitoring.LastCheck)
	assert.Equal(t, 0, report.MailMonitoring.LastCheckFound)
}
