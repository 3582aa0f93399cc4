// Package report renders verification results for humans: approval
// messages posted to reviewers and the console report printed per job.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"invoicegate/internal/domain"
	"invoicegate/internal/money"
	"invoicegate/internal/port"
	"invoicegate/internal/validator"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// ApprovalMessage renders the text reviewers see next to the attached PDF.
func ApprovalMessage(req port.ApprovalRequest, taxRate float64) string {
	inv := req.Invoice
	if inv == nil {
		inv = &domain.CanonicalInvoice{}
	}
	ver := req.Verification
	if ver == nil {
		ver = &domain.VerificationReport{}
	}
	currency := orDefault(inv.Currency, "USD")

	var b strings.Builder
	b.WriteString("🧾 *Invoice Pending Approval*\n\n")

	b.WriteString("📋 *Invoice Details*\n" + rule + "\n")
	fmt.Fprintf(&b, "Vendor: %s\n", orDefault(inv.Vendor, "N/A"))
	fmt.Fprintf(&b, "Invoice #: %s\n", orDefault(inv.InvoiceNumber, "N/A"))
	fmt.Fprintf(&b, "Invoice Date: %s\n", orDefault(inv.InvoiceDate, "N/A"))
	fmt.Fprintf(&b, "Due Date: %s\n\n", orDefault(inv.DueDate, "N/A"))

	b.WriteString("💰 *Financial Summary*\n" + rule + "\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", money.WithCurrency(currency, inv.Subtotal))
	fmt.Fprintf(&b, "Tax (%s): %s\n", money.Percent(taxRate), money.WithCurrency(currency, inv.Tax))
	fmt.Fprintf(&b, "Total Amount: *%s*\n\n", money.WithCurrency(currency, inv.Total))

	emoji, status := "⚠️", "FAILED"
	if ver.AllChecksPassed {
		emoji, status = "✅", "PASSED"
	}
	fmt.Fprintf(&b, "%s *Verification Status: %s*\n%s\n", emoji, status, rule)
	for _, line := range orderedDetails(ver.Details) {
		b.WriteString(line + "\n")
	}

	if len(ver.Flags) > 0 {
		b.WriteString("\n⚠️ *Issues Found:*\n")
		for _, flag := range ver.Flags {
			fmt.Fprintf(&b, "  • %s\n", flag)
		}
	}

	b.WriteString("\n📎 PDF Attached Below\n")
	if req.EmailFrom != "" {
		fmt.Fprintf(&b, "📧 From: %s\n", req.EmailFrom)
	}
	if req.EmailSubject != "" {
		fmt.Fprintf(&b, "📬 Subject: %s\n", req.EmailSubject)
	}
	processed := req.ProcessedAt
	if processed.IsZero() {
		processed = time.Now()
	}
	fmt.Fprintf(&b, "⏰ Processed: %s UTC\n", processed.UTC().Format(time.DateTime))
	fmt.Fprintf(&b, "🔗 Job ID: %s\n", req.JobID)

	b.WriteString("\n*Please review and reply:*\n✅ approve\n❌ reject\n")
	return b.String()
}

// AttachmentName is the filename used when the PDF is re-attached for reviewers.
func AttachmentName(inv *domain.CanonicalInvoice) string {
	return "invoice_" + invoiceNumber(inv) + ".pdf"
}

// AttachmentTitle is the display title of the re-attached PDF.
func AttachmentTitle(inv *domain.CanonicalInvoice) string {
	return "Invoice " + invoiceNumber(inv)
}

func invoiceNumber(inv *domain.CanonicalInvoice) string {
	if inv == nil || inv.InvoiceNumber == "" {
		return "UNKNOWN"
	}
	return inv.InvoiceNumber
}

// orderedDetails returns detail lines in report order, followed by any unknown keys.
func orderedDetails(details map[string]string) []string {
	lines := make([]string, 0, len(details))
	seen := make(map[string]bool, len(details))
	for _, key := range validator.DetailKeys {
		if line, ok := details[key]; ok {
			lines = append(lines, line)
			seen[key] = true
		}
	}
	extra := make([]string, 0)
	for key := range details {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		lines = append(lines, details[key])
	}
	return lines
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
