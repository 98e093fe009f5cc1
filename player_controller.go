package blockade

import (
	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

const (
	PlayerSpeed = 4

	EventJump = "jump"
	EventLand = "land"
)

// PlayerController turns keyboard state into body velocity. The movement keys
// are rotated for the isometric camera: w heads to -x/-z, d to +x/-z.
type PlayerController struct {
	ecs.Base
	Speed     float32
	JumpSpeed float32
}

func NewPlayerController() *PlayerController {
	return &PlayerController{Speed: PlayerSpeed, JumpSpeed: DefaultJumpSpeed}
}

func (p *PlayerController) Update(ctx *ecs.UpdateContext) {
	in, ok := ecs.GetResource[*Input](ctx.World)
	if !ok {
		return
	}
	e := p.Entity()
	body, ok := ecs.Get[*Body](e)
	if !ok {
		return
	}

	var direction vmath.Vec2
	if in.KeyDown(KeyA) {
		direction = direction.Add(vmath.Vec2{-1, 1})
	} else if in.KeyDown(KeyD) {
		direction = direction.Add(vmath.Vec2{1, -1})
	}
	if in.KeyDown(KeyW) {
		direction = direction.Add(vmath.Vec2{-1, -1})
	} else if in.KeyDown(KeyS) {
		direction = direction.Add(vmath.Vec2{1, 1})
	}

	if vmath.LengthSquared2(direction) > 0.1 {
		direction = vmath.Normal2(direction)
		body.Velocity[0] = p.Speed * direction.X()
		body.Velocity[2] = p.Speed * direction.Y()
	} else {
		body.Velocity[0] = 0
		body.Velocity[2] = 0
	}

	states, hasStates := ecs.Get[*StateGraph](e)
	if in.KeyDown(KeySpace) && body.OnGround() && body.Velocity.Y() <= 0 {
		body.Velocity[1] = p.JumpSpeed
		if hasStates {
			states.Trigger(EventJump)
		}
	} else if hasStates && body.OnGround() && states.HasTag(TagJumping) {
		states.Trigger(EventLand)
	}

	if in.MouseDown() {
		if turret, ok := ecs.Get[*Turret](e); ok {
			turret.QueueShot(vmath.Horizontal(in.MousePicked))
		}
	}
}
