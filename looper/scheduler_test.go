package looper_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/seele/looper"
)

func TestManualScheduler(t *testing.T) {
	t.Run("advance without a request", func(t *testing.T) {
		s := looper.NewManualScheduler()
		assert.False(t, s.Pending())
		assert.False(t, s.Advance(0))
	})

	t.Run("request replaces the pending callback", func(t *testing.T) {
		s := looper.NewManualScheduler()
		var fired []string

		s.RequestFrame(func(float64) { fired = append(fired, "first") })
		s.RequestFrame(func(float64) { fired = append(fired, "second") })

		assert.True(t, s.Advance(1))
		assert.Equal(t, []string{"second"}, fired)
		assert.False(t, s.Pending())
	})

	t.Run("cancel ignores stale handles", func(t *testing.T) {
		s := looper.NewManualScheduler()
		stale := s.RequestFrame(func(float64) {})
		s.RequestFrame(func(float64) {})

		s.CancelFrame(stale)
		assert.True(t, s.Pending())
	})

	t.Run("callback may request the next frame", func(t *testing.T) {
		s := looper.NewManualScheduler()
		var stamps []float64

		var tick func(ts float64)
		tick = func(ts float64) {
			stamps = append(stamps, ts)
			s.RequestFrame(tick)
		}
		s.RequestFrame(tick)

		s.Advance(1)
		s.Advance(2)
		assert.Equal(t, []float64{1, 2}, stamps)
		assert.True(t, s.Pending())
	})
}

func TestRunTicker(t *testing.T) {
	s := looper.NewManualScheduler()
	ctx, cancel := context.WithCancel(context.Background())

	fired := make(chan float64, 1)
	s.RequestFrame(func(ts float64) { fired <- ts })

	done := make(chan struct{})
	go func() {
		looper.RunTicker(ctx, s, time.Millisecond)
		close(done)
	}()

	select {
	case ts := <-fired:
		assert.Greater(t, ts, 0.0)
	case <-time.After(time.Second):
		t.Fatal("ticker never advanced the scheduler")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop after cancel")
	}
}
