// Package ebitenhost uses Ebiten's game loop as the frame source of a
// looper.Looper.
package ebitenhost

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/seele/looper"
)

// Host implements ebiten.Game. Each Ebiten update fires the pending frame of
// its scheduler with the milliseconds elapsed since the host was created.
type Host struct {
	scheduler *looper.ManualScheduler
	start     time.Time
	now       func() time.Time

	// OnUpdate runs after the frame callback. Returning an error, such as
	// ebiten.Termination, ends the game.
	OnUpdate func() error
	// OnDraw draws the current state.
	OnDraw func(screen *ebiten.Image)
	// OnLayout receives the outside size before it is used as the screen size.
	OnLayout func(width, height int)
}

var _ ebiten.Game = (*Host)(nil)

// New creates a host with its own scheduler.
func New() *Host {
	return &Host{
		scheduler: looper.NewManualScheduler(),
		start:     time.Now(),
		now:       time.Now,
	}
}

// Scheduler returns the frame source to pass to looper.New.
func (h *Host) Scheduler() *looper.ManualScheduler {
	return h.scheduler
}

// Timestamp returns milliseconds elapsed since the host was created.
func (h *Host) Timestamp() float64 {
	return float64(h.now().Sub(h.start)) / float64(time.Millisecond)
}

func (h *Host) Update() error {
	h.scheduler.Advance(h.Timestamp())

	if h.OnUpdate != nil {
		return h.OnUpdate()
	}
	return nil
}

func (h *Host) Draw(screen *ebiten.Image) {
	if h.OnDraw != nil {
		h.OnDraw(screen)
	}
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if h.OnLayout != nil {
		h.OnLayout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
