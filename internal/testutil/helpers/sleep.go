package helpers

import (
	"context"
	"sync"
	"time"
)

// SleepRecorder は実際には待たずに待機時間を記録する
type SleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
	// Err が設定されていればSleepはそれを返す
	Err error
}

// Sleep records d and returns immediately.
func (s *SleepRecorder) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return s.Err
}

// Delays returns the recorded waits in call order.
func (s *SleepRecorder) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}
