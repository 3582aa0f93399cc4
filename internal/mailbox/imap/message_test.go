package imap_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicegate/internal/mailbox/imap"
)

const invoiceEmail = "From: Nexus Billing <billing@nexuspath.com>\r\n" +
	"To: ap@example.com\r\n" +
	"Subject: =?utf-8?q?Invoice_NPC-2025-0147_=E2=80=93_June?=\r\n" +
	"Date: Tue, 01 Jul 2025 09:15:00 -0400\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"XYZ\"\r\n" +
	"\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Please find the invoice attached.\r\n" +
	"--XYZ\r\n" +
	"Content-Type: application/pdf; name=\"NPC-2025-0147.pdf\"\r\n" +
	"Content-Disposition: attachment; filename=\"NPC-2025-0147.pdf\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"JVBERi0xLjQKJcOkw7zDtsOf\r\n" +
	"--XYZ\r\n" +
	"Content-Type: image/png; name=\"logo.png\"\r\n" +
	"Content-Disposition: attachment; filename=\"logo.png\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"iVBORw0KGgo=\r\n" +
	"--XYZ\r\n" +
	"Content-Type: application/pdf\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"JVBERi0xLjQK\r\n" +
	"--XYZ--\r\n"

func TestParseMessage(t *testing.T) {
	msg, err := imap.ParseMessage(strings.NewReader(invoiceEmail))
	require.NoError(t, err)

	assert.Equal(t, "Invoice NPC-2025-0147 – June", msg.Subject)
	assert.Contains(t, msg.From, "billing@nexuspath.com")
	assert.Equal(t, time.Date(2025, 7, 1, 13, 15, 0, 0, time.UTC), msg.Date.UTC())

	require.Len(t, msg.Attachments, 1, "png and disposition-less parts are ignored")
	att := msg.Attachments[0]
	assert.Equal(t, "NPC-2025-0147.pdf", att.Filename)
	assert.True(t, strings.HasPrefix(string(att.Data), "%PDF-1.4"))
	assert.Equal(t, int64(len(att.Data)), att.Size)
}

func TestParseMessage_NoAttachments(t *testing.T) {
	raw := "From: someone@example.com\r\n" +
		"Subject: Invoice for July\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Invoice to follow.\r\n"

	msg, err := imap.ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "Invoice for July", msg.Subject)
	assert.NotNil(t, msg.Attachments)
	assert.Empty(t, msg.Attachments)
}

func TestSubjectMatches(t *testing.T) {
	assert.True(t, imap.SubjectMatches("June INVOICE attached"))
	assert.True(t, imap.SubjectMatches("Re: invoice"))
	assert.False(t, imap.SubjectMatches("Weekly newsletter"))
	assert.False(t, imap.SubjectMatches(""))
}
