package blockade

import (
	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

// Turret fires bullets of its kind at a queued ground target, at most once
// per FirePeriod.
type Turret struct {
	ecs.Base
	Kind       BulletKind
	FirePeriod float32

	nextShot  float32
	target    vmath.Vec2
	hasTarget bool
}

func NewTurret(kind BulletKind, firePeriod float32) *Turret {
	return &Turret{Kind: kind, FirePeriod: firePeriod, nextShot: firePeriod}
}

// QueueShot aims the next shot. Requests made during the first half of the
// cooldown are ignored.
func (t *Turret) QueueShot(target vmath.Vec2) bool {
	if t.nextShot >= t.FirePeriod/2 {
		return false
	}
	t.target = target
	t.hasTarget = true
	return true
}

// Loaded reports whether a shot is queued.
func (t *Turret) Loaded() bool {
	return t.hasTarget
}

func (t *Turret) Update(ctx *ecs.UpdateContext) {
	t.nextShot -= ctx.Dt
	if !t.hasTarget || t.nextShot > 0 {
		return
	}
	tr, ok := ecs.Get[*Transform](t.Entity())
	if !ok {
		return
	}
	ctx.World.AddEntities(NewBullet(ctx.World, t.Kind, tr.Position, t.target))
	t.nextShot = t.FirePeriod
	t.hasTarget = false
}
