package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		handler := WithRetry(func(context.Context, []byte, []byte) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, fastRetryConfig(3))

		err := handler(context.Background(), []byte("k"), []byte("v"))

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		handlerErr := errors.New("persistent")
		handler := WithRetry(func(context.Context, []byte, []byte) error {
			calls++
			return handlerErr
		}, fastRetryConfig(3))

		err := handler(context.Background(), []byte("k"), []byte("v"))

		assert.ErrorIs(t, err, ErrMaxRetriesExceeded)
		assert.ErrorIs(t, err, handlerErr)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		handler := WithRetry(func(context.Context, []byte, []byte) error {
			return errors.New("always")
		}, fastRetryConfig(5))

		err := handler(ctx, []byte("k"), []byte("v"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type recordingDLQ struct {
	key, value []byte
	cause      error
	calls      int
}

func (d *recordingDLQ) PublishToDLQ(_ context.Context, key, value []byte, err error) error {
	d.calls++
	d.key, d.value, d.cause = key, value, err
	return nil
}

func TestWithDLQ(t *testing.T) {
	t.Run("failed message is parked and the offset commits", func(t *testing.T) {
		dlq := &recordingDLQ{}
		cause := errors.New("poison message")
		handler := WithDLQ(func(context.Context, []byte, []byte) error {
			return cause
		}, dlq)

		err := handler(context.Background(), []byte("k1"), []byte("v1"))

		// nil here means the consumer commits and moves on.
		require.NoError(t, err)
		assert.Equal(t, 1, dlq.calls)
		assert.Equal(t, []byte("k1"), dlq.key)
		assert.Equal(t, []byte("v1"), dlq.value)
		assert.ErrorIs(t, dlq.cause, cause)
	})

	t.Run("successful message skips the DLQ", func(t *testing.T) {
		dlq := &recordingDLQ{}
		handler := WithDLQ(func(context.Context, []byte, []byte) error {
			return nil
		}, dlq)

		require.NoError(t, handler(context.Background(), []byte("k"), []byte("v")))
		assert.Zero(t, dlq.calls)
	})
}
