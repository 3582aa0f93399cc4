package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicegate/internal/domain"
	"invoicegate/internal/port"
	"invoicegate/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Submit(ctx context.Context, input service.SubmitInput) (*domain.Job, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockInvoiceService) Process(ctx context.Context, input service.SubmitInput, p port.InvoiceParser) (*domain.Job, error) {
	args := m.Called(ctx, input, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockInvoiceService) Wait() {
	m.Called()
}
