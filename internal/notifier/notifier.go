// Package notifier selects the approval transport from configuration.
package notifier

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"invoicegate/internal/config"
	"invoicegate/internal/notifier/noop"
	"invoicegate/internal/notifier/ses"
	"invoicegate/internal/notifier/slack"
	"invoicegate/internal/port"
)

// New builds the Notifier named by cfg.Provider: "slack", "ses" or "noop".
func New(ctx context.Context, cfg *config.NotifierConfig, taxRate float64, log *zap.Logger) (port.Notifier, error) {
	switch strings.ToLower(cfg.Provider) {
	case "slack":
		return slack.NewNotifier(&cfg.Slack, taxRate, log)
	case "ses":
		return ses.NewNotifier(ctx, &cfg.SES, taxRate, log)
	case "noop", "":
		return noop.NewNotifier(taxRate, log), nil
	default:
		return nil, fmt.Errorf("unknown notifier provider %q", cfg.Provider)
	}
}
