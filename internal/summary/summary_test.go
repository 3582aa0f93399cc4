package summary_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicegate/internal/domain"
	"invoicegate/internal/summary"
	"invoicegate/internal/validator"
)

func doneJob(t *testing.T) *domain.Job {
	t.Helper()
	inv := &domain.CanonicalInvoice{
		InvoiceNumber: "NPCG-2024-001",
		Vendor:        "Nexus Path Consulting Group LLC",
		InvoiceDate:   "2024-01-01",
		DueDate:       "2024-01-31",
		Currency:      "USD",
		Subtotal:      29570.50,
		Tax:           2624.38,
		Total:         32194.88,
		Flags:         []string{},
		Summary:       "$350 hourly and $8,500 workshop",
	}
	return &domain.Job{
		ID:           uuid.MustParse("6f1c1f7e-8a8e-4c1e-9a52-2f0b1c4f6a10"),
		Status:       domain.JobStatusDone,
		Source:       domain.JobSourceManualUpload,
		Filename:     "invoice.pdf",
		Result:       inv,
		Verification: validator.NewEngine(validator.DefaultExpectations()).Verify(inv),
		Notification: &domain.NotificationOutcome{
			Success:   true,
			Channel:   "#invoice-approval",
			TargetURL: "https://files.example/F123",
			MessageID: "F123",
		},
		CreatedAt:   time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		ProcessedAt: time.Date(2024, 1, 2, 9, 0, 5, 0, time.UTC),
	}
}

func TestSummarize_Error(t *testing.T) {
	s := summary.Summarize(&domain.Job{Status: domain.JobStatusError, Error: "no JSON found in extraction output"})

	assert.Equal(t, domain.JobStatusError, s.Status)
	assert.Equal(t, "Processing failed: no JSON found in extraction output", s.Message)
	assert.Nil(t, s.InvoiceInfo)
	assert.Nil(t, s.VerificationSummary)
	assert.Nil(t, s.NotificationSummary)
	assert.Empty(t, s.Warnings)
}

func TestSummarize_ErrorWithoutMessage(t *testing.T) {
	s := summary.Summarize(&domain.Job{Status: domain.JobStatusError})
	assert.Equal(t, "Processing failed: Unknown error", s.Message)
}

func TestSummarize_Processing(t *testing.T) {
	s := summary.Summarize(&domain.Job{Status: domain.JobStatusProcessing})

	assert.Equal(t, "Invoice is being processed", s.Message)
	assert.Nil(t, s.InvoiceInfo)
	assert.Nil(t, s.VerificationSummary)
	assert.Nil(t, s.NotificationSummary)
	assert.NotNil(t, s.Warnings)
}

func TestSummarize_DoneVerified(t *testing.T) {
	s := summary.Summarize(doneJob(t))

	assert.Equal(t, "Invoice NPCG-2024-001 verified - USD 32,194.88", s.Message)
	require.NotNil(t, s.InvoiceInfo)
	assert.Equal(t, "USD 32,194.88", s.InvoiceInfo.Total)
	assert.Equal(t, "2024-01-01", s.InvoiceInfo.Date)
	assert.Equal(t, "2024-01-31", s.InvoiceInfo.DueDate)
	require.NotNil(t, s.VerificationSummary)
	assert.Equal(t, "5/5", s.VerificationSummary.ChecksPassed)
	assert.Equal(t, summary.LabelVerified, s.VerificationSummary.Status)
	assert.Len(t, s.VerificationSummary.Details, 7)
	require.NotNil(t, s.NotificationSummary)
	assert.True(t, s.NotificationSummary.Posted)
	assert.Equal(t, "#invoice-approval", s.NotificationSummary.Channel)
	assert.Equal(t, "F123", s.NotificationSummary.MessageID)
	assert.Empty(t, s.Warnings)
}

func TestSummarize_DoneWithWarnings(t *testing.T) {
	job := doneJob(t)
	job.Result.Total = 32000
	job.Verification = validator.NewEngine(validator.DefaultExpectations()).Verify(job.Result)
	job.Notification = &domain.NotificationOutcome{Success: false, Error: "channel_not_found"}

	s := summary.Summarize(job)

	assert.Equal(t, "Invoice NPCG-2024-001 processed with warnings - USD 32,000.00 - 4/5 checks passed", s.Message)
	assert.Equal(t, "4/5", s.VerificationSummary.ChecksPassed)
	assert.Equal(t, summary.LabelFailed, s.VerificationSummary.Status)
	assert.False(t, s.NotificationSummary.Posted)
	assert.Equal(t, "channel_not_found", s.NotificationSummary.Error)
	assert.Equal(t, []string{
		"Total mismatch: Expected $32,194.88, got $32,000.00",
		"Notification error: channel_not_found",
	}, s.Warnings)
}

func TestSummarize_DoneWithoutNotification(t *testing.T) {
	job := doneJob(t)
	job.Notification = nil

	s := summary.Summarize(job)

	require.NotNil(t, s.NotificationSummary)
	assert.False(t, s.NotificationSummary.Posted)
	assert.Equal(t, summary.LabelNotPosted, s.NotificationSummary.Status)
}

func TestSummarize_DoneWithMissingSections(t *testing.T) {
	s := summary.Summarize(&domain.Job{Status: domain.JobStatusDone})

	assert.Nil(t, s.InvoiceInfo)
	assert.Nil(t, s.VerificationSummary)
	assert.Equal(t, "Invoice N/A processed with warnings - USD 0.00 - 0/5 checks passed", s.Message)
}

func TestSummarize_EmptyInvoiceFieldsShowNA(t *testing.T) {
	s := summary.Summarize(&domain.Job{
		Status: domain.JobStatusDone,
		Result: &domain.CanonicalInvoice{Currency: "USD", Total: 10},
	})

	require.NotNil(t, s.InvoiceInfo)
	assert.Equal(t, "N/A", s.InvoiceInfo.InvoiceNumber)
	assert.Equal(t, "N/A", s.InvoiceInfo.Vendor)
	assert.Equal(t, "N/A", s.InvoiceInfo.Date)
	assert.Equal(t, "N/A", s.InvoiceInfo.DueDate)
	assert.Equal(t, "USD 10.00", s.InvoiceInfo.Total)
}

func TestSummarize_Idempotent(t *testing.T) {
	job := doneJob(t)
	job.Verification.Flags = append(job.Verification.Flags, "extra")

	first, err := json.Marshal(summary.Summarize(job))
	require.NoError(t, err)
	second, err := json.Marshal(summary.Summarize(job))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, []string{"extra"}, job.Verification.Flags)
}

func TestSummarize_Nil(t *testing.T) {
	assert.NotPanics(t, func() { summary.Summarize(nil) })
}

func TestListItem(t *testing.T) {
	item := summary.ListItem(doneJob(t))

	assert.Equal(t, "6f1c1f7e-8a8e-4c1e-9a52-2f0b1c4f6a10", item.JobID)
	assert.Equal(t, "NPCG-2024-001", item.InvoiceNumber)
	assert.Equal(t, "USD 32,194.88", item.Total)
	assert.Equal(t, summary.LabelListVerified, item.VerificationStatus)
	assert.Equal(t, summary.LabelListPosted, item.NotificationStatus)
	assert.Equal(t, "2024-01-02T09:00:05Z", item.ProcessedAt)
	assert.Equal(t, domain.JobSourceManualUpload, item.Source)
	assert.Equal(t, "NPCG-2024-001 - Verified", item.Message)
}

func TestListItem_ProcessingAndError(t *testing.T) {
	processing := summary.ListItem(&domain.Job{ID: uuid.New(), Status: domain.JobStatusProcessing})
	assert.Equal(t, "N/A", processing.InvoiceNumber)
	assert.Equal(t, "N/A", processing.Total)
	assert.Equal(t, summary.LabelListUnknown, processing.VerificationStatus)
	assert.Equal(t, summary.LabelListNA, processing.NotificationStatus)
	assert.Equal(t, "Processing", processing.Message)

	failed := summary.ListItem(&domain.Job{ID: uuid.New(), Status: domain.JobStatusError, Error: "boom"})
	assert.Equal(t, "Processing error", failed.Message)
}

func TestListItems_PreservesOrder(t *testing.T) {
	a := &domain.Job{ID: uuid.New(), Status: domain.JobStatusProcessing}
	b := &domain.Job{ID: uuid.New(), Status: domain.JobStatusError}

	items := summary.ListItems([]*domain.Job{a, b})

	require.Len(t, items, 2)
	assert.Equal(t, a.ID.String(), items[0].JobID)
	assert.Equal(t, b.ID.String(), items[1].JobID)
}
