package noop

import (
	"context"

	"go.uber.org/zap"

	"invoicegate/internal/logging"
	"invoicegate/internal/port"
	"invoicegate/internal/report"
)

type noopNotifier struct {
	taxRate float64
	log     *zap.Logger
}

// NewNotifier creates a Notifier that only logs the approval message.
func NewNotifier(taxRate float64, log *zap.Logger) port.Notifier {
	return &noopNotifier{taxRate: taxRate, log: logging.Component(log, "notifier")}
}

func (n *noopNotifier) PostForApproval(_ context.Context, req port.ApprovalRequest) (*port.PostResult, error) {
	n.log.Info("approval request (noop)",
		zap.String(logging.FieldJobID, req.JobID.String()),
		zap.String("message", report.ApprovalMessage(req, n.taxRate)),
	)
	return &port.PostResult{Channel: "noop", MessageID: req.JobID.String()}, nil
}
