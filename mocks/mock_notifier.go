package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicegate/internal/port"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PostForApproval(ctx context.Context, req port.ApprovalRequest) (*port.PostResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PostResult), args.Error(1)
}
