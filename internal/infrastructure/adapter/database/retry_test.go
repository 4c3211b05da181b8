package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/logger"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		RetryInterval: time.Millisecond,
		MaxInterval:   5 * time.Millisecond,
		JitterFactor:  0,
	}
}

func TestRetryOnTransientError(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNoopLogger()

	t.Run("succeeds without retry", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(ctx, fastRetryConfig(), func() error {
			calls++
			return nil
		}, log)

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors until success", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(ctx, fastRetryConfig(), func() error {
			calls++
			if calls < 3 {
				return errors.New("connection reset by peer")
			}
			return nil
		}, log)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent errors fail immediately", func(t *testing.T) {
		calls := 0
		permanent := errors.New("syntax error at or near SELECT")
		err := RetryOnTransientError(ctx, fastRetryConfig(), func() error {
			calls++
			return permanent
		}, log)

		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(ctx, fastRetryConfig(), func() error {
			calls++
			return errors.New("deadlock detected")
		}, log)

		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		err := RetryOnTransientError(cancelCtx, fastRetryConfig(), func() error {
			return errors.New("timeout while acquiring connection")
		}, log)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCalculateBackoffWithJitter(t *testing.T) {
	cfg := RetryConfig{
		RetryInterval: 100 * time.Millisecond,
		MaxInterval:   2 * time.Second,
		JitterFactor:  0,
	}

	assert.Equal(t, 100*time.Millisecond, calculateBackoffWithJitter(0, cfg))
	assert.Equal(t, 200*time.Millisecond, calculateBackoffWithJitter(1, cfg))
	assert.Equal(t, 400*time.Millisecond, calculateBackoffWithJitter(2, cfg))
	// Capped at the maximum
	assert.Equal(t, 2*time.Second, calculateBackoffWithJitter(10, cfg))

	cfg.JitterFactor = 0.2
	jittered := calculateBackoffWithJitter(0, cfg)
	assert.GreaterOrEqual(t, jittered, 100*time.Millisecond)
	assert.LessOrEqual(t, jittered, 120*time.Millisecond)
}

func TestIsTransientError(t *testing.T) {
	assert.True(t, isTransientError(errors.New("Deadlock detected")))
	assert.True(t, isTransientError(errors.New("too many connections")))
	assert.True(t, isTransientError(errors.New("unexpected EOF")))
	assert.False(t, isTransientError(errors.New("permission denied")))
	assert.False(t, isTransientError(nil))
}
