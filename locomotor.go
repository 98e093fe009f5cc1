package blockade

import (
	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

const (
	DefaultJumpSpeed = 5

	// reachedDistanceSq is the squared horizontal distance below which a
	// target counts as reached.
	reachedDistanceSq = 0.1
)

// Locomotor steers its body towards a target point on the ground plane and
// hops when terrain holds it back. Clearing the target is left to the caller.
type Locomotor struct {
	ecs.Base
	Speed     float32
	JumpSpeed float32

	target    vmath.Vec2
	hasTarget bool
	moving    bool
}

func NewLocomotor(speed float32) *Locomotor {
	return &Locomotor{Speed: speed, JumpSpeed: DefaultJumpSpeed}
}

func (l *Locomotor) SetTarget(target vmath.Vec2) {
	l.target = target
	l.hasTarget = true
}

func (l *Locomotor) ClearTarget() {
	l.hasTarget = false
}

func (l *Locomotor) Target() (vmath.Vec2, bool) {
	return l.target, l.hasTarget
}

// Moving reports whether the last update commanded horizontal motion.
func (l *Locomotor) Moving() bool {
	return l.moving
}

func (l *Locomotor) Update(*ecs.UpdateContext) {
	e := l.Entity()
	body, ok := ecs.Get[*Body](e)
	if !ok {
		return
	}
	tr, ok := ecs.Get[*Transform](e)
	if !ok {
		return
	}

	if !l.hasTarget {
		l.stop(body)
		return
	}

	direction := l.target.Sub(vmath.Horizontal(tr.Position))
	if vmath.LengthSquared2(direction) < reachedDistanceSq {
		l.stop(body)
		return
	}

	if body.OnGround() && l.moving {
		observed := vmath.Horizontal(body.ObservedVelocity())
		if body.Velocity.Y() <= 0 && vmath.LengthSquared2(observed) < l.Speed {
			body.Velocity[1] = l.JumpSpeed
		}
	}

	direction = vmath.Normal2(direction)
	body.Velocity[0] = l.Speed * direction.X()
	body.Velocity[2] = l.Speed * direction.Y()
	l.moving = true
}

func (l *Locomotor) stop(body *Body) {
	l.moving = false
	body.Velocity[0] = 0
	body.Velocity[2] = 0
}
