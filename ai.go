package blockade

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gekko3d/blockade/bt"
	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

//go:embed brains/enemy.yaml
var defaultEnemyBrain []byte

const (
	wanderArrivedSq      = 0.25
	defaultWanderTimeout = 8 * time.Second
)

// Wander picks a random point within Range of the entity and walks there. It
// fails when the locomotor loses the target or the walk takes longer than
// Timeout.
type Wander struct {
	bt.Base
	Range   float32
	Timeout time.Duration

	deadline time.Duration
}

func NewWander(name string, rangeLimit float32) *Wander {
	return &Wander{Base: bt.NewBase(name), Range: rangeLimit, Timeout: defaultWanderTimeout}
}

func (n *Wander) Step(ctx *bt.Context) bt.Status {
	tr, ok := ecs.Get[*Transform](ctx.Entity)
	if !ok {
		return bt.Fail
	}
	loco, ok := ecs.Get[*Locomotor](ctx.Entity)
	if !ok {
		return bt.Fail
	}

	if n.Status() != bt.Running {
		sizeX, sizeZ := float32(DefaultTerrainX), float32(DefaultTerrainZ)
		if t, ok := TerrainOf(ctx.World, TerrainName); ok {
			x, _, z := t.Size()
			sizeX, sizeZ = float32(x), float32(z)
		}
		angle := 2 * math.Pi * ctx.Float64()
		dist := float64(n.Range) * ctx.Float64()
		loco.SetTarget(vmath.Vec2{
			vmath.Clamp(0, sizeX, tr.Position.X()+float32(dist*math.Sin(angle))),
			vmath.Clamp(0, sizeZ, tr.Position.Z()+float32(dist*math.Cos(angle))),
		})
		n.deadline = ctx.Now + n.Timeout
	}

	target, ok := loco.Target()
	if !ok {
		return bt.Fail
	}
	if vmath.LengthSquared2(target.Sub(vmath.Horizontal(tr.Position))) < wanderArrivedSq {
		loco.ClearTarget()
		return bt.Success
	}
	if n.Timeout > 0 && ctx.Now > n.deadline {
		loco.ClearTarget()
		return bt.Fail
	}
	return bt.Running
}

// Chase keeps steering towards a named entity. It runs until the target is
// gone.
type Chase struct {
	bt.Base
	Target string
}

func NewChase(name, target string) *Chase {
	return &Chase{Base: bt.NewBase(name), Target: target}
}

func (n *Chase) Step(ctx *bt.Context) bt.Status {
	loco, ok := ecs.Get[*Locomotor](ctx.Entity)
	if !ok {
		return bt.Fail
	}
	pos, ok := PositionOf(ctx.World, n.Target)
	if !ok {
		loco.ClearTarget()
		return bt.Fail
	}
	loco.SetTarget(vmath.Horizontal(pos))
	return bt.Running
}

// Shoot keeps the entity's turret aimed at a named entity. It runs until the
// target is gone.
type Shoot struct {
	bt.Base
	Target string
}

func NewShoot(name, target string) *Shoot {
	return &Shoot{Base: bt.NewBase(name), Target: target}
}

func (n *Shoot) Step(ctx *bt.Context) bt.Status {
	turret, ok := ecs.Get[*Turret](ctx.Entity)
	if !ok {
		return bt.Fail
	}
	pos, ok := PositionOf(ctx.World, n.Target)
	if !ok {
		return bt.Fail
	}
	turret.QueueShot(vmath.Horizontal(pos))
	return bt.Running
}

// WithinRange holds while a named entity exists within Range of the entity.
type WithinRange struct {
	Target string
	Range  float32
}

func (p WithinRange) Check(ctx *bt.Context) bool {
	tr, ok := ecs.Get[*Transform](ctx.Entity)
	if !ok {
		return false
	}
	pos, ok := PositionOf(ctx.World, p.Target)
	if !ok {
		return false
	}
	return vmath.LengthSquared3(tr.Position.Sub(pos)) <= p.Range*p.Range
}

// LeafRegistry knows the game's behavior leaves by their config type names.
func LeafRegistry() *bt.Registry {
	reg := bt.NewRegistry()
	reg.Register("wander", func(name string, p bt.Params) (bt.Node, error) {
		n := NewWander(name, p.Float("range", 6))
		timeout, err := p.Duration("timeout", defaultWanderTimeout)
		if err != nil {
			return nil, err
		}
		n.Timeout = timeout
		return n, nil
	})
	reg.Register("chase", func(name string, p bt.Params) (bt.Node, error) {
		return NewChase(name, p.String("target", PlayerName)), nil
	})
	reg.Register("navigate", func(name string, p bt.Params) (bt.Node, error) {
		n := NewNavigate(name, p.String("target", PlayerName))
		replan, err := p.Duration("replan", defaultReplanDelay)
		if err != nil {
			return nil, err
		}
		n.Replan = replan
		return n, nil
	})
	reg.Register("shoot", func(name string, p bt.Params) (bt.Node, error) {
		return NewShoot(name, p.String("target", PlayerName)), nil
	})
	reg.Register("within_range", func(name string, p bt.Params) (bt.Node, error) {
		r := p.Float("range", 0)
		if r <= 0 {
			return nil, fmt.Errorf("within_range needs a positive range")
		}
		return bt.NewCondition(name, WithinRange{Target: p.String("target", PlayerName), Range: r}), nil
	})
	return reg
}

// Brains builds behavior trees for new enemies from one parsed config.
type Brains struct {
	config   *bt.Config
	registry *bt.Registry
}

func NewBrains(config *bt.Config) *Brains {
	return &Brains{config: config, registry: LeafRegistry()}
}

// LoadBrains reads a tree config from path, or the built-in enemy tree when
// path is empty. The tree is built once to surface config errors early.
func LoadBrains(path string) (*Brains, error) {
	src := defaultEnemyBrain
	if path != "" {
		var err error
		if src, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read brain: %w", err)
		}
	}
	cfg, err := bt.LoadYAML(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	b := NewBrains(cfg)
	if _, err := b.Build(); err != nil {
		return nil, fmt.Errorf("brain %q: %w", path, err)
	}
	return b, nil
}

// Build returns a fresh tree.
func (b *Brains) Build() (bt.Node, error) {
	return b.config.Build(b.registry)
}
