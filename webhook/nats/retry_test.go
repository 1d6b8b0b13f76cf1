package nats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("success - first attempt, no delay", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(ctx, 5, time.Millisecond, func(context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("success - after transient failures", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(ctx, 5, time.Millisecond, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhaustion - exactly the configured attempts, last error kept", func(t *testing.T) {
		calls := 0
		failure := errors.New("broker unavailable")
		err := retryWithBackoff(ctx, 4, time.Millisecond, func(context.Context) error {
			calls++
			return failure
		})
		require.Error(t, err)
		assert.Equal(t, 4, calls)
		assert.ErrorIs(t, err, failure)
		assert.Contains(t, err.Error(), "after 4 attempts")
	})

	t.Run("delays strictly increase between attempts", func(t *testing.T) {
		var stamps []time.Time
		_ = retryWithBackoff(ctx, 4, 10*time.Millisecond, func(context.Context) error {
			stamps = append(stamps, time.Now())
			return errors.New("always fails")
		})
		require.Len(t, stamps, 4)
		var gaps []time.Duration
		for i := 1; i < len(stamps); i++ {
			gaps = append(gaps, stamps[i].Sub(stamps[i-1]))
		}
		for i := 1; i < len(gaps); i++ {
			assert.Greater(t, gaps[i], gaps[i-1])
		}
	})

	t.Run("cancelled context stops the loop between attempts", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		calls := 0
		err := retryWithBackoff(cancelCtx, 5, time.Hour, func(context.Context) error {
			calls++
			cancel()
			return errors.New("fail then cancel")
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestBackoffDelay(t *testing.T) {
	base := 200 * time.Millisecond

	assert.Equal(t, 200*time.Millisecond, backoffDelay(base, 0))
	assert.Equal(t, 400*time.Millisecond, backoffDelay(base, 1))
	assert.Equal(t, 800*time.Millisecond, backoffDelay(base, 2))
	assert.Equal(t, 1600*time.Millisecond, backoffDelay(base, 3))
}
