package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicegate/internal/service"
)

// MockHealthService is a mock implementation of service.HealthService.
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Report(ctx context.Context) (*service.HealthReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HealthReport), args.Error(1)
}
