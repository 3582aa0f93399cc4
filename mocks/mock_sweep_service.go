package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicegate/internal/domain"
	"invoicegate/internal/service"
)

// MockSweepService is a mock implementation of service.SweepService.
type MockSweepService struct {
	mock.Mock
}

func (m *MockSweepService) Sweep(ctx context.Context, trigger domain.SweepTrigger, overrides service.SweepOverrides) (*domain.CheckHistoryEntry, error) {
	args := m.Called(ctx, trigger, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckHistoryEntry), args.Error(1)
}

func (m *MockSweepService) History(ctx context.Context, n int) ([]*domain.CheckHistoryEntry, int, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.CheckHistoryEntry), args.Int(1), args.Error(2)
}

func (m *MockSweepService) Last(ctx context.Context) (*domain.CheckHistoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckHistoryEntry), args.Error(1)
}
