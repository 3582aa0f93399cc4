package parser_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicegate/internal/parser"
	"invoicegate/internal/port"
)

func TestBreakerParser_PassesThrough(t *testing.T) {
	stub := &stubParser{model: "m"}
	b := parser.NewBreakerParser(stub, parser.BreakerSettings{Name: "test"}, nil)

	out, err := b.Parse(context.Background(), port.ParseInput{})

	require.NoError(t, err)
	assert.Equal(t, "m", out.ModelUsed)
	assert.Equal(t, "closed", b.State())
}

func TestBreakerParser_OpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubParser{err: errors.New("upstream down")}
	b := parser.NewBreakerParser(stub, parser.BreakerSettings{Name: "test", MaxFailures: 2, Cooldown: time.Hour}, nil)

	for i := 0; i < 2; i++ {
		_, err := b.Parse(context.Background(), port.ParseInput{})
		require.Error(t, err)
		assert.False(t, parser.IsCircuitOpen(err))
	}

	_, err := b.Parse(context.Background(), port.ParseInput{})

	assert.True(t, parser.IsCircuitOpen(err))
	assert.Equal(t, "open", b.State())
	assert.Equal(t, 2, stub.calls)
}

func TestBreakerParser_CancellationDoesNotTrip(t *testing.T) {
	stub := &stubParser{err: context.Canceled}
	b := parser.NewBreakerParser(stub, parser.BreakerSettings{Name: "test", MaxFailures: 1}, nil)

	for i := 0; i < 3; i++ {
		_, err := b.Parse(context.Background(), port.ParseInput{})
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", b.State())
	assert.Equal(t, 3, stub.calls)
}
