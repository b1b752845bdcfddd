package looper

import (
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Options tunes the loop. Times are in milliseconds.
type Options struct {
	// MinFrameDelay skips frames arriving sooner than this after the previous
	// processed frame.
	MinFrameDelay float64 `yaml:"min_frame_delay"`
	// SimulationTimestep is the fixed delta passed to every update call.
	SimulationTimestep float64 `yaml:"simulation_timestep"`
	// PanicBorder caps the fixed steps drained in one frame.
	PanicBorder int `yaml:"panic_border"`
	// FPSUpdateInterval is how much time passes between FPS estimates.
	FPSUpdateInterval float64 `yaml:"fps_update_interval"`
	// FPSAlpha weights the newest sample in the FPS moving average.
	FPSAlpha float64 `yaml:"fps_alpha"`
}

// DefaultOptions returns a 60Hz step with a 60 step panic border.
func DefaultOptions() Options {
	return Options{
		MinFrameDelay:      0,
		SimulationTimestep: 1000.0 / 60.0,
		PanicBorder:        60,
		FPSUpdateInterval:  1000,
		FPSAlpha:           0.9,
	}
}

// Merge returns o with every non-zero field of next applied on top. A zero
// MinFrameDelay therefore cannot clear an active delay; use
// Looper.SetMinFrameDelay for that.
func (o Options) Merge(next Options) Options {
	if next.MinFrameDelay != 0 {
		o.MinFrameDelay = next.MinFrameDelay
	}
	if next.SimulationTimestep != 0 {
		o.SimulationTimestep = next.SimulationTimestep
	}
	if next.PanicBorder != 0 {
		o.PanicBorder = next.PanicBorder
	}
	if next.FPSUpdateInterval != 0 {
		o.FPSUpdateInterval = next.FPSUpdateInterval
	}
	if next.FPSAlpha != 0 {
		o.FPSAlpha = next.FPSAlpha
	}
	return o
}

// LoadOptions reads options from YAML and merges them over the defaults.
// An empty document yields the defaults.
func LoadOptions(r io.Reader) (Options, error) {
	var opts Options
	if err := yaml.NewDecoder(r).Decode(&opts); err != nil && !eris.Is(err, io.EOF) {
		return Options{}, eris.Wrap(err, "failed to decode looper options")
	}
	return DefaultOptions().Merge(opts), nil
}
