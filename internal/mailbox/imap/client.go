// Package imap sweeps an IMAP mailbox for unseen invoice emails.
package imap

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	goimap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"go.uber.org/zap"

	"invoicegate/internal/config"
	"invoicegate/internal/domain"
	"invoicegate/internal/logging"
	"invoicegate/internal/port"
)

type mailbox struct {
	addr    string
	host    string
	folder  string
	timeout time.Duration
	log     *zap.Logger
}

// NewMailbox creates an IMAP-over-TLS Mailbox.
func NewMailbox(cfg *config.MailConfig, log *zap.Logger) port.Mailbox {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	folder := cfg.Mailbox
	if folder == "" {
		folder = "INBOX"
	}
	return &mailbox{
		addr:    cfg.Address(),
		host:    cfg.Host,
		folder:  folder,
		timeout: timeout,
		log:     logging.Component(log, "mailbox"),
	}
}

// FetchInvoiceMessages returns unseen messages received since the cutoff
// whose subject mentions an invoice. Fetching a matching message marks it seen.
func (m *mailbox) FetchInvoiceMessages(ctx context.Context, creds port.MailboxCredentials, since time.Time) ([]port.InvoiceMessage, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, domain.ErrMailboxNotConfigured
	}

	c, err := m.connect(ctx, creds)
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	// go-imap v1 is not context aware; tear the connection down on cancellation.
	stop := context.AfterFunc(ctx, func() { _ = c.Terminate() })
	defer stop()

	if _, err := c.Select(m.folder, false); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", m.folder, err)
	}

	criteria := goimap.NewSearchCriteria()
	criteria.WithoutFlags = []string{goimap.SeenFlag}
	criteria.Since = time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC)

	uids, err := c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("searching unseen messages: %w", err)
	}
	m.log.Info("unseen messages found", zap.Int("count", len(uids)), zap.Time("since", criteria.Since))
	if len(uids) == 0 {
		return []port.InvoiceMessage{}, nil
	}

	matching, err := m.matchingUIDs(c, uids)
	if err != nil {
		return nil, err
	}
	if len(matching) == 0 {
		return []port.InvoiceMessage{}, nil
	}
	return m.fetchBodies(ctx, c, matching)
}

func (m *mailbox) connect(ctx context.Context, creds port.MailboxCredentials) (*client.Client, error) {
	dialer := &net.Dialer{Timeout: m.timeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}
	conn, err := tls.DialWithDialer(dialer, "tcp", m.addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", m.addr, err)
	}
	c, err := client.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("starting imap session: %w", err)
	}
	c.Timeout = m.timeout

	if err := c.Login(creds.Username, creds.Password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return c, nil
}

// matchingUIDs fetches envelopes only, so non-invoice mail stays unseen.
func (m *mailbox) matchingUIDs(c *client.Client, uids []uint32) ([]uint32, error) {
	set := new(goimap.SeqSet)
	set.AddNum(uids...)

	messages := make(chan *goimap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(set, []goimap.FetchItem{goimap.FetchUid, goimap.FetchEnvelope}, messages)
	}()

	var matching []uint32
	for msg := range messages {
		if msg == nil || msg.Envelope == nil {
			continue
		}
		if SubjectMatches(msg.Envelope.Subject) {
			matching = append(matching, msg.Uid)
		} else {
			m.log.Debug("skipping non-invoice message", zap.String("subject", msg.Envelope.Subject))
		}
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetching envelopes: %w", err)
	}
	return matching, nil
}

func (m *mailbox) fetchBodies(ctx context.Context, c *client.Client, uids []uint32) ([]port.InvoiceMessage, error) {
	set := new(goimap.SeqSet)
	set.AddNum(uids...)
	section := &goimap.BodySectionName{}

	messages := make(chan *goimap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(set, []goimap.FetchItem{goimap.FetchUid, section.FetchItem()}, messages)
	}()

	out := make([]port.InvoiceMessage, 0, len(uids))
	var parseErrs []error
	for msg := range messages {
		if msg == nil {
			continue
		}
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		parsed, err := ParseMessage(body)
		if err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("uid %d: %w", msg.Uid, err))
			continue
		}
		out = append(out, parsed)
	}
	if err := <-done; err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("fetching messages: %w", err)
	}
	for _, err := range parseErrs {
		m.log.Warn("unparseable message skipped", zap.Error(err))
	}
	return out, nil
}
