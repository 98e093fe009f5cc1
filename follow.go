package blockade

import (
	"math"

	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

const (
	CameraName = "camera"

	defaultFollowRatio = 0.05
)

// Follow eases its entity towards a named target on the ground plane, kept at
// Offset. Height is fixed at Offset.Y.
type Follow struct {
	ecs.Base
	TargetName string
	Offset     vmath.Vec3
	// Ratio is the share of the remaining distance covered each frame.
	Ratio float32
}

func NewFollow(target string, offset vmath.Vec3) *Follow {
	return &Follow{TargetName: target, Offset: offset, Ratio: defaultFollowRatio}
}

func (f *Follow) Init(ctx *ecs.InitContext) {
	f.moveTowards(ctx.World, 1)
}

func (f *Follow) Update(ctx *ecs.UpdateContext) {
	f.moveTowards(ctx.World, f.Ratio)
}

func (f *Follow) moveTowards(w *ecs.World, ratio float32) {
	tr, ok := ecs.Get[*Transform](f.Entity())
	if !ok {
		return
	}
	target, ok := PositionOf(w, f.TargetName)
	if !ok {
		return
	}
	goal := target.Add(f.Offset)
	tr.Position[0] = vmath.Lerp(goal.X(), tr.Position.X(), ratio)
	tr.Position[1] = f.Offset.Y()
	tr.Position[2] = vmath.Lerp(goal.Z(), tr.Position.Z(), ratio)
}

// Camera orients its transform from yaw and pitch.
type Camera struct {
	ecs.Base
	Yaw   float32
	Pitch float32
}

// NewIsometricCamera looks down at 45 degrees along the -x/-z diagonal.
func NewIsometricCamera() *Camera {
	return &Camera{Yaw: -math.Pi / 4, Pitch: -math.Pi / 4}
}

func (c *Camera) Update(*ecs.UpdateContext) {
	tr, ok := ecs.Get[*Transform](c.Entity())
	if !ok {
		return
	}
	yaw := vmath.RotorFromAxisAngle(vmath.UnitY(), c.Yaw)
	pitch := vmath.RotorFromAxisAngle(yaw.Sandwich(vmath.UnitX()), c.Pitch)
	tr.Rotation = pitch.Mul(yaw)
}

// Dir returns the viewing direction.
func (c *Camera) Dir() vmath.Vec3 {
	tr, ok := ecs.Get[*Transform](c.Entity())
	if !ok {
		return vmath.UnitZ()
	}
	return tr.Rotation.Sandwich(vmath.UnitZ())
}

// View returns the world-to-camera matrix.
func (c *Camera) View() vmath.Mat4 {
	tr, ok := ecs.Get[*Transform](c.Entity())
	if !ok {
		return vmath.Mat4{}
	}
	return vmath.LookAt(tr.Position, tr.Position.Add(c.Dir()))
}
