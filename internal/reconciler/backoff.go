package reconciler

import (
	"context"
	"math"
	"time"
)

const (
	// DefaultMaxAttempts はマージ可能性のポーリング回数の上限
	DefaultMaxAttempts = 60
	// DefaultInterval はポーリング間隔
	DefaultInterval = 60 * time.Second
)

// Backoff はポーリング間の待機時間を決める
// Multiplierが1以下なら固定間隔、1より大きければMaxIntervalを上限とする指数バックオフ
type Backoff struct {
	Interval    time.Duration
	Multiplier  float64
	MaxInterval time.Duration
}

// Delay returns the wait after the given (1-based) attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt <= 0 || b.Interval <= 0 {
		return 0
	}
	if b.Multiplier <= 1 {
		return b.Interval
	}

	delay := float64(b.Interval) * math.Pow(b.Multiplier, float64(attempt-1))
	if b.MaxInterval > 0 && delay > float64(b.MaxInterval) {
		return b.MaxInterval
	}
	return time.Duration(delay)
}

// PollPolicy bounds the mergeability poll loop.
type PollPolicy struct {
	MaxAttempts int
	Backoff     Backoff
}

// DefaultPollPolicy は60秒間隔で最大60回（約1時間）待つ
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Backoff: Backoff{
			Interval:   DefaultInterval,
			Multiplier: 1,
		},
	}
}

// shouldContinue はもう一度フェッチするかを決める純粋関数
func shouldContinue(attempt, maxAttempts, unresolved int) bool {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return unresolved > 0 && attempt < maxAttempts
}

// SleepFunc waits for d. Returning an error aborts the poll loop.
type SleepFunc func(ctx context.Context, d time.Duration) error

// sleepContext はdだけ待つ。コンテキストが終了した場合はそのエラーを返す
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
