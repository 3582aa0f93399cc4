// Package slack posts approval requests to a Slack channel as a PDF upload
// with the verification summary as its initial comment.
package slack

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"invoicegate/internal/config"
	"invoicegate/internal/logging"
	"invoicegate/internal/port"
	"invoicegate/internal/report"
)

// ErrNotConfigured is returned when the bot token or channel id is missing.
var ErrNotConfigured = errors.New("slack notifier not configured")

type slackNotifier struct {
	api         *slack.Client
	channelID   string
	channelName string
	taxRate     float64
	log         *zap.Logger
}

// NewNotifier creates a Slack-backed Notifier.
func NewNotifier(cfg *config.SlackConfig, taxRate float64, log *zap.Logger) (port.Notifier, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("%w: bot token is required", ErrNotConfigured)
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("%w: channel id is required", ErrNotConfigured)
	}

	var opts []slack.Option
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}
	return &slackNotifier{
		api:         slack.New(cfg.BotToken, opts...),
		channelID:   cfg.ChannelID,
		channelName: cfg.ChannelName,
		taxRate:     taxRate,
		log:         logging.Component(log, "slack"),
	}, nil
}

func (n *slackNotifier) PostForApproval(ctx context.Context, req port.ApprovalRequest) (*port.PostResult, error) {
	if len(req.PDF) == 0 {
		return nil, errors.New("slack: no PDF to attach")
	}

	summary, err := n.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Channel:        n.channelID,
		Reader:         bytes.NewReader(req.PDF),
		FileSize:       len(req.PDF),
		Filename:       report.AttachmentName(req.Invoice),
		Title:          report.AttachmentTitle(req.Invoice),
		InitialComment: report.ApprovalMessage(req, n.taxRate),
	})
	if err != nil {
		return nil, fmt.Errorf("slack api error: %w", err)
	}

	result := &port.PostResult{Channel: n.channelID, MessageID: summary.ID}

	file, _, _, err := n.api.GetFileInfoContext(ctx, summary.ID, 0, 0)
	if err != nil {
		// The upload itself succeeded; only the permalink is missing.
		n.log.Warn("permalink lookup failed", zap.String("file_id", summary.ID), zap.Error(err))
	} else {
		result.TargetURL = file.Permalink
	}

	n.log.Info("posted for approval",
		zap.String("channel", n.channelName),
		zap.String(logging.FieldJobID, req.JobID.String()),
		zap.String("file_url", result.TargetURL),
	)
	return result, nil
}
