package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"invoicegate/internal/domain"
)

// ApprovalRequest is everything a notifier needs to ask a human to approve an invoice.
type ApprovalRequest struct {
	JobID        uuid.UUID
	Invoice      *domain.CanonicalInvoice
	Verification *domain.VerificationReport
	PDF          []byte
	Filename     string
	EmailFrom    string
	EmailSubject string
	ProcessedAt  time.Time
}

// PostResult identifies the posted approval request.
type PostResult struct {
	Channel   string
	TargetURL string
	MessageID string
}

// Notifier posts approval requests to a team channel.
type Notifier interface {
	PostForApproval(ctx context.Context, req ApprovalRequest) (*PostResult, error)
}
