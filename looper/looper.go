// Package looper drives a simulation with a fixed timestep from a variable
// frame source.
//
// Every frame the elapsed real time is added to an accumulator, which is then
// drained in SimulationTimestep sized update calls. If draining would need
// more than PanicBorder steps the frame stops early and reports a panic, so
// an overloaded host can discard the backlog with ResetFrameDelta instead of
// falling further behind.
package looper

// BeforeUpdate runs at the start of every processed frame.
type BeforeUpdate func(timestamp, frameDelta float64)

// AfterUpdate runs at the end of every processed frame.
type AfterUpdate func(fps float64, panic bool)

// Render receives how far the simulation is into the next step, in [0, 1).
type Render func(interpolation float64)

// Update advances the simulation by one fixed step.
type Update func(delta float64)

// Looper is a fixed-timestep loop bound to one FrameScheduler. It is not safe
// for concurrent use; all callbacks run on the scheduler's goroutine.
type Looper struct {
	scheduler FrameScheduler
	options   Options
	fps       *FPSWatcher

	frameDelta    float64
	lastTimestamp float64
	panicking     bool

	started bool
	running bool
	handle  FrameHandle

	beforeUpdate BeforeUpdate
	afterUpdate  AfterUpdate
	render       Render
	update       Update
}

// New creates a stopped looper. Zero fields of opts take the defaults.
func New(scheduler FrameScheduler, opts Options) *Looper {
	options := DefaultOptions().Merge(opts)

	return &Looper{
		scheduler:    scheduler,
		options:      options,
		fps:          NewFPSWatcher(options),
		beforeUpdate: func(float64, float64) {},
		afterUpdate:  func(float64, bool) {},
		render:       func(float64) {},
		update:       func(float64) {},
	}
}

// Options returns the active options.
func (l *Looper) Options() Options {
	return l.options
}

// SetOptions merges the non-zero fields of opts over the active options.
func (l *Looper) SetOptions(opts Options) {
	l.options = l.options.Merge(opts)
	l.fps.SetOptions(l.options)
}

// SetMinFrameDelay replaces the minimum frame delay. Unlike SetOptions it can
// turn the delay off with 0.
func (l *Looper) SetMinFrameDelay(delay float64) *Looper {
	l.options.MinFrameDelay = max(delay, 0)
	return l
}

// SetBeforeUpdate sets the frame start hook. A nil fn keeps the current one.
func (l *Looper) SetBeforeUpdate(fn BeforeUpdate) *Looper {
	if fn != nil {
		l.beforeUpdate = fn
	}
	return l
}

// SetAfterUpdate sets the frame end hook. A nil fn keeps the current one.
func (l *Looper) SetAfterUpdate(fn AfterUpdate) *Looper {
	if fn != nil {
		l.afterUpdate = fn
	}
	return l
}

// SetRender sets the render hook. A nil fn keeps the current one.
func (l *Looper) SetRender(fn Render) *Looper {
	if fn != nil {
		l.render = fn
	}
	return l
}

// SetUpdate sets the fixed step hook. A nil fn keeps the current one.
func (l *Looper) SetUpdate(fn Update) *Looper {
	if fn != nil {
		l.update = fn
	}
	return l
}

// ResetFrameDelta discards the accumulated time and returns it.
func (l *Looper) ResetFrameDelta() float64 {
	old := l.frameDelta
	l.frameDelta = 0
	return old
}

// FPS returns the current frame rate estimate.
func (l *Looper) FPS() float64 {
	return l.fps.FPS()
}

// Started reports whether Start was called without a later Stop.
func (l *Looper) Started() bool {
	return l.started
}

// Running reports whether the first frame has arrived since Start.
func (l *Looper) Running() bool {
	return l.running
}

// Start requests the first frame. The first frame only renders and records
// its timestamp; updates begin with the second. Calling Start while started
// has no effect.
func (l *Looper) Start() {
	if l.started {
		return
	}

	l.started = true
	l.handle = l.scheduler.RequestFrame(func(timestamp float64) {
		l.render(1)
		if !l.started {
			return
		}

		l.running = true
		l.lastTimestamp = timestamp
		l.fps.Reset(timestamp)

		l.handle = l.scheduler.RequestFrame(l.frame)
	})
}

// Stop cancels the pending frame. A frame in progress is not interrupted.
func (l *Looper) Stop() {
	l.started = false
	l.running = false
	l.scheduler.CancelFrame(l.handle)
}

func (l *Looper) frame(timestamp float64) {
	l.handle = l.scheduler.RequestFrame(l.frame)

	if timestamp < l.lastTimestamp+l.options.MinFrameDelay {
		return
	}

	l.frameDelta += timestamp - l.lastTimestamp
	l.lastTimestamp = timestamp

	l.beforeUpdate(timestamp, l.frameDelta)

	l.fps.Update(timestamp)

	step := l.options.SimulationTimestep
	steps := 0
	for l.frameDelta >= step {
		if steps >= l.options.PanicBorder {
			l.panicking = true
			break
		}

		l.update(step)
		l.frameDelta -= step
		steps++
	}

	l.render(l.frameDelta / step)
	l.afterUpdate(l.fps.FPS(), l.panicking)

	l.panicking = false
}
