package blockade

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gekko3d/blockade/ecs"
)

// App drives the World from a clock: one Step per frame, Update then Render.
type App struct {
	World  *ecs.World
	Config Config

	logger Logger
	rng    *rand.Rand
	script *InputScript
	clock  *Time
}

// NewApp builds the full game. sink may be nil.
func NewApp(cfg Config, logger Logger, sink DotSink) (*App, error) {
	return NewAppBuilder(cfg).
		WithLogger(logger).
		UseModule(DefaultModules(sink)...).
		Build()
}

func (app *App) Time() Time {
	return *app.clock
}

func (app *App) Logger() Logger {
	return app.logger
}

// Step runs one frame of length dt. Releasing P toggles the pause; while
// paused the frame delta is zero but the clock keeps running.
func (app *App) Step(dt time.Duration) error {
	app.clock.Advance(dt)

	if in, ok := ecs.GetResource[*Input](app.World); ok {
		app.script.Apply(in, app.clock.Now)
		if in.KeyReleased(KeyP) {
			app.clock.TogglePause()
			app.clock.Dt = 0
			app.logger.Infof("paused: %v", app.clock.Paused)
		}
	}

	ctx := &ecs.UpdateContext{
		Dt:    app.clock.Dt,
		Now:   app.clock.Now,
		Rand:  app.rng,
		World: app.World,
	}
	if err := app.World.Update(ctx); err != nil {
		return fmt.Errorf("frame %d: %w", app.clock.Frame, err)
	}
	app.World.Render(&ecs.RenderContext{UpdateContext: *ctx})
	return nil
}

// Run steps the app at the configured tick rate until ctx is done, Frames
// frames have run, or a frame fails.
func (app *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(app.Config.TickInterval())
	defer ticker.Stop()

	app.logger.Infof("running at %d ticks per second", app.Config.TickRate)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if err := app.Step(dt); err != nil {
				return err
			}
			if app.Config.Frames > 0 && app.clock.Frame >= app.Config.Frames {
				app.logger.Infof("stopping after %d frames", app.clock.Frame)
				return nil
			}
		}
	}
}

// Close tears the world down, releasing every resource.
func (app *App) Close() {
	app.World.Destroy()
}
