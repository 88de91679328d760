package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiterConsumesBudget(t *testing.T) {
	l := NewTokenLimiter(100)

	require.NoError(t, l.Wait(context.Background(), 40))
	assert.Equal(t, 60, l.GetRemaining())

	require.NoError(t, l.Wait(context.Background(), 60))
	assert.Equal(t, 0, l.GetRemaining())
}

func TestTokenLimiterBlocksUntilContextDone(t *testing.T) {
	l := NewTokenLimiter(10)
	require.NoError(t, l.Wait(context.Background(), 10))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenLimiterWindowResets(t *testing.T) {
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewTokenLimiter(10)
	l.now = func() time.Time { return current }
	l.windowStart = current

	require.NoError(t, l.Wait(context.Background(), 10))
	current = current.Add(time.Minute)
	assert.Equal(t, 10, l.GetRemaining())
	require.NoError(t, l.Wait(context.Background(), 5))
	assert.Equal(t, 5, l.GetRemaining())
}

func TestTokenLimiterRejectsOversizedRequest(t *testing.T) {
	l := NewTokenLimiter(10)
	assert.Error(t, l.Wait(context.Background(), 11))
}

func TestTokenLimiterDisabled(t *testing.T) {
	l := NewTokenLimiter(0)
	assert.NoError(t, l.Wait(context.Background(), 1_000_000))
}
