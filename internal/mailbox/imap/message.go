package imap

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"invoicegate/internal/port"
)

// SubjectMatches reports whether subject mentions an invoice, case-insensitively.
func SubjectMatches(subject string) bool {
	return strings.Contains(strings.ToLower(subject), "invoice")
}

// ParseMessage reads a raw RFC 5322 message and keeps only its PDF attachments.
// A part counts as an attachment when it carries a Content-Disposition header
// and a filename ending in ".pdf".
func ParseMessage(r io.Reader) (port.InvoiceMessage, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return port.InvoiceMessage{}, fmt.Errorf("reading message: %w", err)
	}
	defer mr.Close()

	msg := port.InvoiceMessage{Attachments: []port.PDFAttachment{}}
	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = subject
	} else {
		msg.Subject = mr.Header.Get("Subject")
	}
	if from, err := mr.Header.Text("From"); err == nil {
		msg.From = from
	} else {
		msg.From = mr.Header.Get("From")
	}
	if date, err := mr.Header.Date(); err == nil {
		msg.Date = date
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if message.IsUnknownCharset(err) {
				continue
			}
			return msg, fmt.Errorf("reading message part: %w", err)
		}

		if part.Header.Get("Content-Disposition") == "" {
			continue
		}
		filename := partFilename(part.Header)
		if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
			continue
		}

		data, err := io.ReadAll(part.Body)
		if err != nil {
			return msg, fmt.Errorf("reading attachment %s: %w", filename, err)
		}
		if len(data) == 0 {
			continue
		}
		msg.Attachments = append(msg.Attachments, port.PDFAttachment{
			Filename: filename,
			Data:     data,
			Size:     int64(len(data)),
		})
	}
	return msg, nil
}

func partFilename(h mail.PartHeader) string {
	switch h := h.(type) {
	case *mail.AttachmentHeader:
		name, _ := h.Filename()
		return name
	case *mail.InlineHeader:
		_, params, err := h.ContentDisposition()
		if err != nil {
			return ""
		}
		return params["filename"]
	}
	return ""
}
