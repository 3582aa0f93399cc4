package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"invoicegate/internal/domain"
	"invoicegate/internal/money"
)

const width = 80

// WriteConsole prints the per-job verification report operators read in the logs or the CLI.
func WriteConsole(w io.Writer, jobID uuid.UUID, inv *domain.CanonicalInvoice, ver *domain.VerificationReport) error {
	if inv == nil {
		inv = &domain.CanonicalInvoice{}
	}
	if ver == nil {
		ver = &domain.VerificationReport{}
	}

	var b strings.Builder
	heavy := strings.Repeat("=", width)
	light := strings.Repeat("-", width)

	fmt.Fprintf(&b, "\n%s\n", heavy)
	fmt.Fprintf(&b, "INVOICE VERIFICATION REPORT - Job ID: %s\n", jobID)
	fmt.Fprintf(&b, "%s\n", heavy)
	fmt.Fprintf(&b, "\nInvoice Number: %s\n", inv.InvoiceNumber)
	fmt.Fprintf(&b, "Vendor: %s\n", inv.Vendor)
	fmt.Fprintf(&b, "Invoice Date: %s\n", inv.InvoiceDate)
	fmt.Fprintf(&b, "Due Date: %s\n", inv.DueDate)
	fmt.Fprintf(&b, "Currency: %s\n", inv.Currency)
	b.WriteString("\nFinancial Summary:\n")
	fmt.Fprintf(&b, "  Subtotal: %s\n", money.Dollars(inv.Subtotal))
	fmt.Fprintf(&b, "  Tax: %s\n", money.Dollars(inv.Tax))
	fmt.Fprintf(&b, "  Total: %s\n", money.Dollars(inv.Total))

	fmt.Fprintf(&b, "\n%s\n%s\n", center("VERIFICATION CHECKS"), light)
	for _, line := range orderedDetails(ver.Details) {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	fmt.Fprintf(&b, "\n%s\n%s\n", center("OVERALL STATUS"), light)
	if ver.AllChecksPassed {
		b.WriteString("  ✓✓✓ ALL CRITICAL CHECKS PASSED ✓✓✓\n")
	} else {
		b.WriteString("  ✗✗✗ VERIFICATION FAILED ✗✗✗\n")
	}

	if len(ver.Flags) > 0 {
		fmt.Fprintf(&b, "\n%s\n%s\n", center("FLAGS & ISSUES"), light)
		for _, flag := range ver.Flags {
			fmt.Fprintf(&b, "  ⚠ %s\n", flag)
		}
	}
	fmt.Fprintf(&b, "\n%s\n\n", heavy)

	_, err := io.WriteString(w, b.String())
	return err
}

func center(title string) string {
	pad := width - len(title)
	if pad <= 0 {
		return title
	}
	left := pad / 2
	return strings.Repeat(" ", left) + title + strings.Repeat(" ", pad-left)
}
