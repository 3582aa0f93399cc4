// Package summary derives the human-facing view of a job. Every function here is
// pure: the same job always yields the same output.
package summary

import (
	"fmt"
	"time"

	"invoicegate/internal/domain"
	"invoicegate/internal/money"
)

// Labels shown for verification and notification state.
const (
	LabelVerified       = "VERIFIED"
	LabelFailed         = "FAILED"
	LabelPosted         = "Posted for approval"
	LabelPostFailed     = "Approval posting failed"
	LabelNotPosted      = "Not posted"
	LabelListVerified   = "Verified"
	LabelListFailed     = "Failed"
	LabelListUnknown    = "Unknown"
	LabelListPosted     = "Posted"
	LabelListPostFailed = "Failed"
	LabelListNA         = "N/A"
)

const notAvailable = "N/A"

// Summarize builds the StatusSummary for job. It never fails on missing sub-fields.
func Summarize(job *domain.Job) domain.StatusSummary {
	if job == nil {
		return domain.StatusSummary{Message: "Unknown job", Warnings: []string{}}
	}

	s := domain.StatusSummary{
		Status:   job.Status,
		Warnings: []string{},
	}

	switch job.Status {
	case domain.JobStatusError:
		msg := job.Error
		if msg == "" {
			msg = "Unknown error"
		}
		s.Message = "Processing failed: " + msg
		return s
	case domain.JobStatusProcessing:
		s.Message = "Invoice is being processed"
		return s
	}

	inv := job.Result
	if inv == nil {
		inv = &domain.CanonicalInvoice{}
	}
	currency := orDefault(inv.Currency, "USD")
	total := money.WithCurrency(currency, inv.Total)

	if job.Result != nil {
		s.InvoiceInfo = &domain.InvoiceInfo{
			InvoiceNumber: orDefault(inv.InvoiceNumber, notAvailable),
			Vendor:        orDefault(inv.Vendor, notAvailable),
			Total:         total,
			Date:          orDefault(inv.InvoiceDate, notAvailable),
			DueDate:       orDefault(inv.DueDate, notAvailable),
		}
	}

	passed := 0
	allPassed := false
	if v := job.Verification; v != nil {
		passed = v.CriticalChecksPassed()
		allPassed = v.AllChecksPassed
		label := LabelFailed
		if allPassed {
			label = LabelVerified
		}
		s.VerificationSummary = &domain.VerificationSummary{
			AllChecksPassed: allPassed,
			ChecksPassed:    fmt.Sprintf("%d/%d", passed, domain.CriticalChecksTotal),
			Status:          label,
			Details:         copyDetails(v.Details),
		}
		s.Warnings = append(s.Warnings, v.Flags...)
	}

	s.NotificationSummary = notificationSummary(job.Notification)
	if n := job.Notification; n != nil && !n.Success {
		s.Warnings = append(s.Warnings, "Notification error: "+n.Error)
	}

	number := orDefault(inv.InvoiceNumber, notAvailable)
	if allPassed {
		s.Message = fmt.Sprintf("Invoice %s verified - %s", number, total)
	} else {
		s.Message = fmt.Sprintf("Invoice %s processed with warnings - %s - %d/%d checks passed",
			number, total, passed, domain.CriticalChecksTotal)
	}
	return s
}

func notificationSummary(n *domain.NotificationOutcome) *domain.NotificationSummary {
	if n == nil {
		return &domain.NotificationSummary{Posted: false, Status: LabelNotPosted}
	}
	if n.Success {
		return &domain.NotificationSummary{
			Posted:    true,
			Status:    LabelPosted,
			Channel:   n.Channel,
			TargetURL: n.TargetURL,
			MessageID: n.MessageID,
		}
	}
	return &domain.NotificationSummary{
		Posted:  false,
		Status:  LabelPostFailed,
		Channel: n.Channel,
		Error:   n.Error,
	}
}

// ListItem builds the compact row used by the bulk job listing.
func ListItem(job *domain.Job) domain.JobListItem {
	item := domain.JobListItem{
		JobID:              job.ID.String(),
		Status:             job.Status,
		InvoiceNumber:      notAvailable,
		Vendor:             notAvailable,
		Total:              notAvailable,
		VerificationStatus: LabelListUnknown,
		NotificationStatus: LabelListNA,
		ProcessedAt:        notAvailable,
		Source:             job.Source,
	}
	if !job.ProcessedAt.IsZero() {
		item.ProcessedAt = job.ProcessedAt.UTC().Format(time.RFC3339)
	}

	if inv := job.Result; inv != nil {
		item.InvoiceNumber = orDefault(inv.InvoiceNumber, notAvailable)
		item.Vendor = orDefault(inv.Vendor, notAvailable)
		item.Total = money.WithCurrency(orDefault(inv.Currency, "USD"), inv.Total)
	}
	if v := job.Verification; v != nil {
		item.VerificationStatus = LabelListFailed
		if v.AllChecksPassed {
			item.VerificationStatus = LabelListVerified
		}
	}
	if n := job.Notification; n != nil {
		item.NotificationStatus = LabelListPostFailed
		if n.Success {
			item.NotificationStatus = LabelListPosted
		}
	}

	switch {
	case job.Status == domain.JobStatusDone && job.Result != nil:
		if job.Verification != nil && job.Verification.AllChecksPassed {
			item.Message = item.InvoiceNumber + " - Verified"
		} else {
			item.Message = item.InvoiceNumber + " - Verification issues"
		}
	case job.Status == domain.JobStatusError:
		item.Message = "Processing error"
	default:
		item.Message = "Processing"
	}
	return item
}

// ListItems maps ListItem over jobs, preserving order.
func ListItems(jobs []*domain.Job) []domain.JobListItem {
	out := make([]domain.JobListItem, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, ListItem(j))
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func copyDetails(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
