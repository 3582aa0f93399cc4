package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPinger is a mock implementation of port.Pinger.
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
