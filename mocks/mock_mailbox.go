package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"invoicegate/internal/port"
)

// MockMailbox is a mock implementation of port.Mailbox.
type MockMailbox struct {
	mock.Mock
}

func (m *MockMailbox) FetchInvoiceMessages(ctx context.Context, creds port.MailboxCredentials, since time.Time) ([]port.InvoiceMessage, error) {
	args := m.Called(ctx, creds, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.InvoiceMessage), args.Error(1)
}
