package blockade

import (
	"github.com/gekko3d/blockade/ecs"
)

// Decay removes its entity once Remaining seconds have elapsed.
type Decay struct {
	ecs.Base
	Remaining float32
}

func NewDecay(seconds float32) *Decay {
	return &Decay{Remaining: seconds}
}

func (d *Decay) Update(ctx *ecs.UpdateContext) {
	d.Remaining -= ctx.Dt
	if d.Remaining <= 0 {
		ctx.World.RemoveEntity(d.Entity().Name())
	}
}
