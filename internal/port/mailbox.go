package port

import (
	"context"
	"time"
)

// MailboxCredentials identify the mailbox account to sweep.
type MailboxCredentials struct {
	Username string
	Password string
}

// PDFAttachment is one PDF found on an invoice email.
type PDFAttachment struct {
	Filename string
	Data     []byte
	Size     int64
}

// InvoiceMessage is an unseen email whose subject mentions an invoice.
// Attachments holds only PDF parts and may be empty.
type InvoiceMessage struct {
	From        string
	Subject     string
	Date        time.Time
	Attachments []PDFAttachment
}

// Mailbox fetches invoice emails received since a cutoff.
type Mailbox interface {
	FetchInvoiceMessages(ctx context.Context, creds MailboxCredentials, since time.Time) ([]InvoiceMessage, error)
}
