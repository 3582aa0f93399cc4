package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockPDFInspector is a mock implementation of port.PDFInspector.
type MockPDFInspector struct {
	mock.Mock
}

func (m *MockPDFInspector) PageCount(data []byte) (int, error) {
	args := m.Called(data)
	return args.Int(0), args.Error(1)
}
