// Package ses emails approval requests through Amazon SES with the invoice PDF attached.
package ses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"invoicegate/internal/config"
	"invoicegate/internal/domain"
	"invoicegate/internal/logging"
	"invoicegate/internal/port"
	"invoicegate/internal/report"
)

// SendEmailAPI is the subset of the SES v2 client the notifier uses.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesNotifier struct {
	client  SendEmailAPI
	from    *mail.Address
	to      *mail.Address
	taxRate float64
	log     *zap.Logger
}

// NewNotifier creates an SES-backed Notifier using the default AWS credential chain.
func NewNotifier(ctx context.Context, cfg *config.SESConfig, taxRate float64, log *zap.Logger) (port.Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewNotifierWithClient(sesv2.NewFromConfig(awsCfg), cfg, taxRate, log)
}

// NewNotifierWithClient creates a Notifier over an existing SES client.
func NewNotifierWithClient(client SendEmailAPI, cfg *config.SESConfig, taxRate float64, log *zap.Logger) (port.Notifier, error) {
	if cfg.FromAddress == "" || cfg.ToAddress == "" {
		return nil, errors.New("ses from and to addresses are required")
	}
	return &sesNotifier{
		client:  client,
		from:    &mail.Address{Name: cfg.FromName, Address: cfg.FromAddress},
		to:      &mail.Address{Address: cfg.ToAddress},
		taxRate: taxRate,
		log:     logging.Component(log, "ses"),
	}, nil
}

func (n *sesNotifier) PostForApproval(ctx context.Context, req port.ApprovalRequest) (*port.PostResult, error) {
	raw, err := n.buildMessage(req)
	if err != nil {
		return nil, fmt.Errorf("building approval email: %w", err)
	}

	out, err := n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.from.String()),
		Destination:      &types.Destination{ToAddresses: []string{n.to.Address}},
		Content:          &types.EmailContent{Raw: &types.RawMessage{Data: raw}},
	})
	if err != nil {
		return nil, fmt.Errorf("SES SendEmail: %w", err)
	}

	messageID := aws.ToString(out.MessageId)
	n.log.Info("approval email sent",
		zap.String(logging.FieldJobID, req.JobID.String()),
		zap.String("message_id", messageID),
	)
	return &port.PostResult{Channel: n.to.Address, MessageID: messageID}, nil
}

func (n *sesNotifier) buildMessage(req port.ApprovalRequest) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{n.from})
	h.SetAddressList("To", []*mail.Address{n.to})
	h.SetSubject(subject(req.Invoice))
	if err := h.GenerateMessageID(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, err
	}

	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	tw, err := mw.CreateSingleInline(th)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(tw, report.ApprovalMessage(req, n.taxRate)); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}

	if len(req.PDF) > 0 {
		var ah mail.AttachmentHeader
		ah.Set("Content-Type", domain.ContentTypePDF)
		ah.SetFilename(report.AttachmentName(req.Invoice))
		aw, err := mw.CreateAttachment(ah)
		if err != nil {
			return nil, err
		}
		if _, err := aw.Write(req.PDF); err != nil {
			return nil, err
		}
		if err := aw.Close(); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func subject(inv *domain.CanonicalInvoice) string {
	return "Invoice pending approval: " + report.AttachmentTitle(inv)
}
