package looper_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/seele/looper"
)

func newLooper(opts looper.Options) (*looper.Looper, *looper.ManualScheduler) {
	scheduler := looper.NewManualScheduler()
	return looper.New(scheduler, opts), scheduler
}

func TestLooperLifecycle(t *testing.T) {
	t.Run("start renders once before running", func(t *testing.T) {
		l, s := newLooper(looper.Options{})

		var renders []float64
		l.SetRender(func(interp float64) { renders = append(renders, interp) })

		assert.False(t, l.Started())
		l.Start()
		assert.True(t, l.Started())
		assert.False(t, l.Running())
		require.True(t, s.Pending())

		s.Advance(100)
		assert.True(t, l.Running())
		assert.Equal(t, []float64{1}, renders)
		assert.True(t, s.Pending())
	})

	t.Run("start twice keeps one pending frame", func(t *testing.T) {
		l, s := newLooper(looper.Options{})
		l.Start()
		l.Start()

		assert.True(t, s.Advance(0))
		assert.True(t, s.Advance(10))
	})

	t.Run("stop cancels the pending frame", func(t *testing.T) {
		l, s := newLooper(looper.Options{})
		updates := 0
		l.SetUpdate(func(float64) { updates++ })

		l.Start()
		s.Advance(0)
		l.Stop()

		assert.False(t, l.Started())
		assert.False(t, l.Running())
		assert.False(t, s.Advance(1000))
		assert.Equal(t, 0, updates)
	})

	t.Run("stop from after update", func(t *testing.T) {
		l, s := newLooper(looper.Options{})
		l.SetAfterUpdate(func(float64, bool) { l.Stop() })

		l.Start()
		s.Advance(0)
		s.Advance(20)

		assert.False(t, s.Pending())
	})
}

func TestLooperFixedStep(t *testing.T) {
	t.Run("drains whole steps and carries the remainder", func(t *testing.T) {
		l, s := newLooper(looper.Options{SimulationTimestep: 10})

		var deltas []float64
		var interp float64
		l.SetUpdate(func(delta float64) { deltas = append(deltas, delta) })
		l.SetRender(func(i float64) { interp = i })

		l.Start()
		s.Advance(0)
		s.Advance(35)

		assert.Equal(t, []float64{10, 10, 10}, deltas)
		assert.InDelta(t, 0.5, interp, 1e-9)
		assert.InDelta(t, 5, l.ResetFrameDelta(), 1e-9)

		s.Advance(40)
		assert.Len(t, deltas, 3)
	})

	t.Run("before update sees the accumulated delta", func(t *testing.T) {
		l, s := newLooper(looper.Options{SimulationTimestep: 10})

		var seen [][2]float64
		l.SetBeforeUpdate(func(ts, frameDelta float64) {
			seen = append(seen, [2]float64{ts, frameDelta})
		})

		l.Start()
		s.Advance(100)
		s.Advance(125)
		s.Advance(130)

		assert.Equal(t, [][2]float64{{125, 25}, {130, 10}}, seen)
	})

	t.Run("min frame delay skips early frames", func(t *testing.T) {
		l, s := newLooper(looper.Options{SimulationTimestep: 10, MinFrameDelay: 30})
		updates := 0
		l.SetUpdate(func(float64) { updates++ })

		l.Start()
		s.Advance(0)
		s.Advance(20)
		assert.Equal(t, 0, updates)
		assert.True(t, s.Pending())

		s.Advance(40)
		assert.Equal(t, 4, updates)
	})

	t.Run("min frame delay can be turned off", func(t *testing.T) {
		l, s := newLooper(looper.Options{SimulationTimestep: 10, MinFrameDelay: 30})
		updates := 0
		l.SetUpdate(func(float64) { updates++ })

		l.Start()
		s.Advance(0)

		l.SetOptions(looper.Options{MinFrameDelay: 0})
		assert.Equal(t, 30.0, l.Options().MinFrameDelay, "zero fields do not override")

		l.SetMinFrameDelay(0)
		assert.Equal(t, 0.0, l.Options().MinFrameDelay)

		s.Advance(20)
		assert.Equal(t, 2, updates)

		l.SetMinFrameDelay(-5)
		assert.Equal(t, 0.0, l.Options().MinFrameDelay)
	})

	t.Run("nil hooks keep the current ones", func(t *testing.T) {
		l, s := newLooper(looper.Options{SimulationTimestep: 10})
		updates := 0
		l.SetUpdate(func(float64) { updates++ }).
			SetUpdate(nil).
			SetRender(nil).
			SetBeforeUpdate(nil).
			SetAfterUpdate(nil)

		l.Start()
		s.Advance(0)
		s.Advance(10)
		assert.Equal(t, 1, updates)
	})
}

func TestLooperPanicGuard(t *testing.T) {
	l, s := newLooper(looper.Options{SimulationTimestep: 10, PanicBorder: 5})

	updates := 0
	var panics []bool
	l.SetUpdate(func(float64) { updates++ })
	l.SetAfterUpdate(func(_ float64, panic bool) { panics = append(panics, panic) })

	l.Start()
	s.Advance(0)

	t.Run("backlog over the border panics once", func(t *testing.T) {
		s.Advance(100)

		assert.Equal(t, 5, updates)
		assert.Equal(t, []bool{true}, panics)
		assert.InDelta(t, 50, l.ResetFrameDelta(), 1e-9)
	})

	t.Run("the panic flag clears on the next frame", func(t *testing.T) {
		s.Advance(110)

		assert.Equal(t, 6, updates)
		assert.Equal(t, []bool{true, false}, panics)
	})

	t.Run("exactly the border does not panic", func(t *testing.T) {
		s.Advance(160)

		assert.Equal(t, 11, updates)
		assert.Equal(t, []bool{true, false, false}, panics)
	})
}

func TestOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts := looper.DefaultOptions()
		assert.Equal(t, 0.0, opts.MinFrameDelay)
		assert.InDelta(t, 1000.0/60.0, opts.SimulationTimestep, 1e-9)
		assert.Equal(t, 60, opts.PanicBorder)
		assert.Equal(t, 1000.0, opts.FPSUpdateInterval)
		assert.Equal(t, 0.9, opts.FPSAlpha)
	})

	t.Run("zero fields keep the current value", func(t *testing.T) {
		l, _ := newLooper(looper.Options{PanicBorder: 10})
		l.SetOptions(looper.Options{SimulationTimestep: 5})

		opts := l.Options()
		assert.Equal(t, 10, opts.PanicBorder)
		assert.Equal(t, 5.0, opts.SimulationTimestep)
		assert.Equal(t, 0.9, opts.FPSAlpha)
	})

	t.Run("load from yaml", func(t *testing.T) {
		opts, err := looper.LoadOptions(strings.NewReader("simulation_timestep: 20\npanic_border: 3\n"))
		require.NoError(t, err)

		assert.Equal(t, 20.0, opts.SimulationTimestep)
		assert.Equal(t, 3, opts.PanicBorder)
		assert.Equal(t, 1000.0, opts.FPSUpdateInterval)
	})

	t.Run("empty yaml yields defaults", func(t *testing.T) {
		opts, err := looper.LoadOptions(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, looper.DefaultOptions(), opts)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := looper.LoadOptions(strings.NewReader("panic_border: [1, 2"))
		assert.Error(t, err)
	})
}

func TestFPSWatcher(t *testing.T) {
	w := looper.NewFPSWatcher(looper.Options{FPSUpdateInterval: 1000, FPSAlpha: 0.5})
	assert.Equal(t, 60.0, w.FPS())

	w.Reset(0)
	for ts := 10.0; ts <= 1000; ts += 10 {
		w.Update(ts)
	}
	assert.Equal(t, 60.0, w.FPS(), "no estimate before the interval elapses")

	// 100 frames counted over the first 1010ms.
	w.Update(1010)
	assert.InDelta(t, 0.5*100*1000/1010.0+0.5*60, w.FPS(), 1e-9)
}

func ExampleLooper() {
	scheduler := looper.NewManualScheduler()
	l := looper.New(scheduler, looper.Options{SimulationTimestep: 10})

	steps := 0
	l.SetUpdate(func(float64) { steps++ })
	l.Start()

	for ts := 0.0; ts <= 100; ts += 25 {
		scheduler.Advance(ts)
	}

	fmt.Println(steps)
	// Output: 10
}
