package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() Policy {
	return NewPolicy(3, time.Millisecond, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPolicy_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("success on first attempt", func(t *testing.T) {
		attempts := 0
		err := testPolicy().Do(ctx, func() error {
			attempts++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("transient failure retried up to three attempts total", func(t *testing.T) {
		attempts := 0
		transient := errors.New("connection reset")
		err := testPolicy().Do(ctx, func() error {
			attempts++
			return transient
		})
		require.ErrorIs(t, err, transient, "the final error must propagate")
		assert.Equal(t, 3, attempts)
	})

	t.Run("recovers when a retry succeeds", func(t *testing.T) {
		attempts := 0
		err := testPolicy().Do(ctx, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("timeout")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("permanent failure attempted exactly once", func(t *testing.T) {
		attempts := 0
		appErr := errors.New("400 bad request")
		err := testPolicy().Do(ctx, func() error {
			attempts++
			return Permanent(appErr)
		})
		require.ErrorIs(t, err, appErr)
		assert.Equal(t, 1, attempts)
	})

	t.Run("cancellation abandons remaining attempts", func(t *testing.T) {
		p := NewPolicy(3, 50*time.Millisecond, 100*time.Millisecond, nil)
		cancelCtx, cancel := context.WithCancel(ctx)

		attempts := 0
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		err := p.Do(cancelCtx, func() error {
			attempts++
			return errors.New("timeout")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts, "cancellation during backoff must stop further attempts")
	})
}

func TestNewPolicy_Defaults(t *testing.T) {
	p := NewPolicy(0, 0, 0, nil)
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 2*time.Second, p.MinWait)
	assert.Equal(t, 10*time.Second, p.MaxWait)
}
