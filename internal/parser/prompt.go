package parser

import "fmt"

// SystemInstruction constrains the model to bare JSON output.
const SystemInstruction = "Return only JSON. No markdown. Use YYYY-MM-DD for dates."

// BuildInvoicePrompt returns the extraction prompt, embedding the email context the PDF arrived with.
func BuildInvoicePrompt(emailFrom, emailSubject string) string {
	return fmt.Sprintf(`Extract invoice fields and return STRICT JSON with keys:
invoice_number, vendor, invoice_date (YYYY-MM-DD), due_date (YYYY-MM-DD),
currency, subtotal, tax, total, confidence, flags, summary.

In the summary field, include details about pricing (hourly rates, flat fees) if visible.

Email context (may help):
From: %s
Subject: %s
`, emailFrom, emailSubject)
}
