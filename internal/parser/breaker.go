package parser

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"invoicegate/internal/port"
)

// BreakerSettings configures the circuit breaker wrapped around a provider.
type BreakerSettings struct {
	Name        string
	MaxFailures uint32
	Cooldown    time.Duration
}

// BreakerParser stops calling a failing provider until the cooldown elapses.
// It never retries: a failed call is returned to the caller as-is.
type BreakerParser struct {
	next    port.InvoiceParser
	breaker *gobreaker.CircuitBreaker[*port.ParseOutput]
}

// NewBreakerParser wraps next with a circuit breaker. Cancellations by the caller
// are not counted as provider failures.
func NewBreakerParser(next port.InvoiceParser, settings BreakerSettings, logger *zap.Logger) *BreakerParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxFailures := settings.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	cooldown := settings.Cooldown
	if cooldown <= 0 {
		cooldown = time.Minute
	}

	cb := gobreaker.NewCircuitBreaker[*port.ParseOutput](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("parser circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerParser{next: next, breaker: cb}
}

func (b *BreakerParser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	return b.breaker.Execute(func() (*port.ParseOutput, error) {
		return b.next.Parse(ctx, input)
	})
}

// State reports the breaker state, e.g. "closed" or "open".
func (b *BreakerParser) State() string {
	return b.breaker.State().String()
}

// IsCircuitOpen reports whether err was returned because the breaker rejected the call.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
