package looper

import (
	"context"
	"time"
)

// FrameHandle identifies a pending frame request.
type FrameHandle uint64

// FrameScheduler is the host's frame source. RequestFrame arranges for fn to
// be called once with the frame timestamp in milliseconds.
type FrameScheduler interface {
	RequestFrame(fn func(timestamp float64)) FrameHandle
	CancelFrame(h FrameHandle)
}

// ManualScheduler holds at most one pending frame callback and fires it when
// the host calls Advance.
type ManualScheduler struct {
	next    FrameHandle
	pending FrameHandle
	fn      func(timestamp float64)
}

var _ FrameScheduler = (*ManualScheduler)(nil)

// NewManualScheduler creates a scheduler with nothing pending.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// RequestFrame replaces any pending callback with fn.
func (s *ManualScheduler) RequestFrame(fn func(timestamp float64)) FrameHandle {
	s.next++
	s.pending = s.next
	s.fn = fn
	return s.pending
}

// CancelFrame drops the pending callback if h still identifies it.
func (s *ManualScheduler) CancelFrame(h FrameHandle) {
	if h == s.pending {
		s.pending = 0
		s.fn = nil
	}
}

// Pending reports whether a callback is waiting.
func (s *ManualScheduler) Pending() bool {
	return s.fn != nil
}

// Advance fires the pending callback with timestamp. The callback may request
// the next frame. It reports whether a callback ran.
func (s *ManualScheduler) Advance(timestamp float64) bool {
	fn := s.fn
	if fn == nil {
		return false
	}

	s.pending = 0
	s.fn = nil
	fn(timestamp)
	return true
}

// RunTicker advances s from wall-clock time every interval until ctx is
// cancelled. Timestamps are milliseconds since RunTicker was called.
func RunTicker(ctx context.Context, s *ManualScheduler, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Advance(float64(now.Sub(start)) / float64(time.Millisecond))
		}
	}
}
