package blockade

import (
	"time"
)

// Time is the simulation clock. Now keeps running while paused; only the
// frame delta drops to zero.
type Time struct {
	Now    time.Duration
	Dt     float32
	Frame  int
	Paused bool
}

type TimeModule struct{}

func (TimeModule) Install(app *App) error {
	app.World.AddResource(&Time{})
	return nil
}

// Advance moves the clock by one frame of length dt.
func (t *Time) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	t.Now += dt
	t.Frame++
	if t.Paused {
		t.Dt = 0
		return
	}
	t.Dt = float32(dt.Seconds())
}

func (t *Time) TogglePause() {
	t.Paused = !t.Paused
}
