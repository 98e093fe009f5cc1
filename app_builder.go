package blockade

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"time"

	"github.com/gekko3d/blockade/ecs"
)

// Module installs resources and entities into an App under construction.
type Module interface {
	Install(app *App) error
}

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder(cfg Config) *AppBuilder {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &AppBuilder{app: &App{
		World:  ecs.NewWorld(NewRegistry()),
		Config: cfg,
		logger: NewNopLogger(),
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}}
}

func (b *AppBuilder) WithLogger(l Logger) *AppBuilder {
	if l != nil {
		b.app.logger = l
	}
	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

// Build installs the modules in the order they were added.
func (b *AppBuilder) Build() (*App, error) {
	app := b.app
	script, err := NewInputScript(app.Config.Input)
	if err != nil {
		return nil, err
	}
	app.script = script

	for _, module := range b.modules {
		if err := module.Install(app); err != nil {
			return nil, fmt.Errorf("install %s: %w", reflect.TypeOf(module), err)
		}
	}
	clock, ok := ecs.GetResource[*Time](app.World)
	if !ok {
		clock = &Time{}
		app.World.AddResource(clock)
	}
	app.clock = clock
	return app, nil
}

// DefaultModules returns the modules of a full game. A nil sink leaves the
// behavior tree debug session out.
func DefaultModules(sink DotSink) []Module {
	modules := []Module{TimeModule{}, CoreModule{}, SceneModule{}}
	if sink != nil {
		modules = append(modules, DebugModule{Sink: sink})
	}
	return modules
}

// CoreModule installs the shared resources: logger, input, spatial grid, the
// entity name counters, the navigation map and the enemy brains.
type CoreModule struct{}

func (CoreModule) Install(app *App) error {
	brains, err := LoadBrains(app.Config.EnemyBrain)
	if err != nil {
		return err
	}
	app.World.
		WithResource(app.logger).
		WithResource(NewInput()).
		WithResource(NewSpatialHashGrid(DefaultCellSize)).
		WithResource(NewNames()).
		WithResource(NewNav()).
		WithResource(brains)
	return nil
}

// SceneModule queues the starting entities.
type SceneModule struct{}

func (SceneModule) Install(app *App) error {
	app.World.AddEntities(NewScene(app.World, app.Config, app.rng)...)
	return nil
}

// DebugModule streams the nearest enemy's behavior tree to Sink.
type DebugModule struct {
	Sink DotSink
}

func (mod DebugModule) Install(app *App) error {
	session := NewDebugSession(mod.Sink, app.Config.Debug)
	app.World.AddResource(session)
	app.logger.Infof("debug session %s started", session.ID())
	return nil
}
