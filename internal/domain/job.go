package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job tracks one invoice PDF through extraction, verification and notification.
type Job struct {
	ID           uuid.UUID            `json:"job_id"`
	Status       JobStatus            `json:"status"`
	Source       JobSource            `json:"source"`
	Filename     string               `json:"filename"`
	EmailFrom    string               `json:"email_from"`
	EmailSubject string               `json:"email_subject"`
	PageCount    int                  `json:"page_count,omitempty"`
	ArchiveKey   string               `json:"archive_key,omitempty"`
	Result       *CanonicalInvoice    `json:"result"`
	Verification *VerificationReport  `json:"verification"`
	Notification *NotificationOutcome `json:"notification"`
	Error        string               `json:"error,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	ProcessedAt  time.Time            `json:"processed_at"`
}

// Completion carries everything written by the single transition to done.
type Completion struct {
	Result       *CanonicalInvoice
	Verification *VerificationReport
	Notification *NotificationOutcome
	PageCount    int
	ArchiveKey   string
}

// CheckHistoryEntry records one mailbox sweep.
type CheckHistoryEntry struct {
	ID                uuid.UUID    `json:"id"`
	CheckedAt         time.Time    `json:"checked_at"`
	Trigger           SweepTrigger `json:"trigger"`
	InvoicesFound     int          `json:"invoices_found"`
	InvoicesProcessed int          `json:"invoices_processed"`
	Errors            []string     `json:"errors"`
	JobIDs            []uuid.UUID  `json:"job_ids"`
}

// MaxCheckHistory is the number of sweeps retained; older entries are evicted first.
const MaxCheckHistory = 100
