package looper

// FPSWatcher estimates frames per second with an exponential moving average
// that is only recomputed once per update interval.
type FPSWatcher struct {
	interval float64
	alpha    float64

	fps           float64
	lastTimestamp float64
	frames        int
}

// NewFPSWatcher creates a watcher starting at 60 FPS.
func NewFPSWatcher(opts Options) *FPSWatcher {
	w := &FPSWatcher{fps: 60}
	w.SetOptions(opts)
	return w
}

// SetOptions applies the FPS fields of opts.
func (w *FPSWatcher) SetOptions(opts Options) {
	w.interval = opts.FPSUpdateInterval
	w.alpha = opts.FPSAlpha
}

// FPS returns the current estimate.
func (w *FPSWatcher) FPS() float64 {
	return w.fps
}

// Reset restarts sampling at timestamp.
func (w *FPSWatcher) Reset(timestamp float64) {
	w.lastTimestamp = timestamp
	w.frames = 0
}

// Update counts one frame at timestamp.
func (w *FPSWatcher) Update(timestamp float64) {
	if timestamp > w.lastTimestamp+w.interval {
		sample := float64(w.frames) * 1000 / (timestamp - w.lastTimestamp)
		w.fps = w.alpha*sample + (1-w.alpha)*w.fps

		w.lastTimestamp = timestamp
		w.frames = 0
	}

	w.frames++
}
