package blockade

import (
	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

const (
	DefaultGravity = 9.81
	TerrainName    = "terrain"

	bodySubSteps = 6
)

// Body moves its entity's transform under gravity and resolves penetration
// against the terrain's solid blocks.
type Body struct {
	ecs.Base
	Velocity vmath.Vec3
	Gravity  float32
	// Center offsets the collision box from the transform position.
	Center      vmath.Vec3
	HalfExtents vmath.Vec3
	// FloorLevel is the lowest height the bottom of the box may reach.
	FloorLevel float32
	// TerrainName names the entity whose Terrain is collided against. The
	// terrain is looked up every frame and never retained.
	TerrainName string

	onGround bool
	observed vmath.Vec3
}

func NewBody(velocity vmath.Vec3) *Body {
	return &Body{
		Velocity:    velocity,
		Gravity:     DefaultGravity,
		Center:      vmath.Vec3{0, -0.25, 0},
		HalfExtents: vmath.Fill(0.35),
		FloorLevel:  1,
		TerrainName: TerrainName,
	}
}

// OnGround reports whether the body rested on something during the last update.
func (b *Body) OnGround() bool {
	return b.onGround
}

// ObservedVelocity is the displacement of the last update divided by its
// duration, after collisions.
func (b *Body) ObservedVelocity() vmath.Vec3 {
	return b.observed
}

// Floor is the lowest transform height the body is clamped to.
func (b *Body) Floor() float32 {
	return b.FloorLevel - b.Center.Y() + b.HalfExtents.Y()
}

// Bounds returns the collision box for a transform position.
func (b *Body) Bounds(position vmath.Vec3) Aabb {
	return Aabb{Center: position.Add(b.Center), HalfExtents: b.HalfExtents}
}

func (b *Body) Update(ctx *ecs.UpdateContext) {
	tr, ok := ecs.Get[*Transform](b.Entity())
	if !ok {
		return
	}
	var blocks BlockSource
	if t, ok := TerrainOf(ctx.World, b.TerrainName); ok {
		blocks = t
	}

	start := tr.Position
	dt := ctx.Dt

	b.Velocity[1] -= b.Gravity * dt
	b.onGround = false

	step := b.Velocity.Mul(dt / bodySubSteps)
	for range bodySubSteps {
		tr.Position = tr.Position.Add(step)
		if blocks != nil {
			b.resolve(tr, blocks)
		}
	}

	if floor := b.Floor(); tr.Position.Y() <= floor {
		tr.Position[1] = floor
		b.Velocity[1] = 0
		b.onGround = true
	}

	if dt > 0 {
		b.observed = tr.Position.Sub(start).Mul(1 / dt)
	} else {
		b.observed = vmath.Vec3{}
	}
}

// resolve pushes the box out of every solid cell it overlaps, one cell at a
// time, re-deriving the box after each push.
func (b *Body) resolve(tr *Transform, blocks BlockSource) {
	box := b.Bounds(tr.Position)
	lo := vmath.Floor3(box.Min())
	hi := vmath.Floor3(box.Max())

	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				block, ok := blocks.BlockAabb(x, y, z)
				if !ok {
					continue
				}
				normal, depth := box.Intersection(block)
				if depth == 0 {
					continue
				}
				if normal.Y() < 0 && b.Velocity.Y() < 0 {
					b.onGround = true
					b.Velocity[1] = 0
				}
				tr.Position = tr.Position.Sub(normal.Mul(depth))
				box.Center = tr.Position.Add(b.Center)
			}
		}
	}
}
