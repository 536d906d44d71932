package github

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRetryStrategy(t *testing.T) {
	rs := DefaultRetryStrategy()

	assert.Equal(t, 3, rs.MaxAttempts)
	assert.Equal(t, 1*time.Second, rs.InitialDelay)
	assert.Equal(t, 30*time.Second, rs.MaxDelay)
	assert.Equal(t, 2.0, rs.Multiplier)
	assert.True(t, rs.Jitter)
}

func TestRetryStrategy_GetRetryDelay(t *testing.T) {
	rs := RetryStrategy{
		InitialDelay: 1 * time.Second,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}

	assert.Equal(t, time.Duration(0), rs.GetRetryDelay(0))
	assert.Equal(t, 1*time.Second, rs.GetRetryDelay(1))
	assert.Equal(t, 2*time.Second, rs.GetRetryDelay(2))
	assert.Equal(t, 4*time.Second, rs.GetRetryDelay(3))
	assert.Equal(t, 5*time.Second, rs.GetRetryDelay(4))

	rs.Jitter = true
	delay := rs.GetRetryDelay(1)
	assert.GreaterOrEqual(t, delay, 1*time.Second)
	assert.LessOrEqual(t, delay, 1250*time.Millisecond)
}

func fastStrategy(attempts int) RetryStrategy {
	return RetryStrategy{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1,
	}
}

func TestRetryWithStrategy(t *testing.T) {
	t.Run("成功するまでリトライする", func(t *testing.T) {
		calls := 0
		err := RetryWithStrategy(context.Background(), fastStrategy(3), func() error {
			calls++
			if calls < 3 {
				return &GitHubError{Type: ErrorTypeServerError}
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("リトライ不可のエラーは即座に返す", func(t *testing.T) {
		calls := 0
		err := RetryWithStrategy(context.Background(), fastStrategy(3), func() error {
			calls++
			return &GitHubError{Type: ErrorTypeNotFound}
		})
		assert.True(t, IsNotFoundError(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("分類されていないエラーはリトライしない", func(t *testing.T) {
		calls := 0
		plain := errors.New("plain")
		err := RetryWithStrategy(context.Background(), fastStrategy(3), func() error {
			calls++
			return plain
		})
		assert.ErrorIs(t, err, plain)
		assert.Equal(t, 1, calls)
	})

	t.Run("上限回数で最後のエラーを返す", func(t *testing.T) {
		calls := 0
		err := RetryWithStrategy(context.Background(), fastStrategy(2), func() error {
			calls++
			return &GitHubError{Type: ErrorTypeRateLimit}
		})
		assert.True(t, IsRateLimitError(err))
		assert.Equal(t, 2, calls)
	})

	t.Run("キャンセル済みのコンテキスト", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := RetryWithStrategy(ctx, fastStrategy(3), func() error {
			return &GitHubError{Type: ErrorTypeServerError}
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
