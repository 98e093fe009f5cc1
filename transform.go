package blockade

import (
	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

type Transform struct {
	ecs.Base
	Position vmath.Vec3
	Rotation vmath.Rotor3
	Scale    vmath.Vec3
}

func NewTransform(position vmath.Vec3) *Transform {
	return &Transform{
		Position: position,
		Rotation: vmath.IdentityRotor(),
		Scale:    vmath.Fill(1),
	}
}

// Matrix returns translation * rotation * scale.
func (t *Transform) Matrix() vmath.Mat4 {
	return vmath.Translated(t.Position).Mul4(t.Rotation.Matrix()).Mul4(vmath.Scaled(t.Scale))
}

// PositionOf returns the position of the named entity's transform.
func PositionOf(w *ecs.World, name string) (vmath.Vec3, bool) {
	e, ok := w.GetByName(name)
	if !ok {
		return vmath.Vec3{}, false
	}
	t, ok := ecs.Get[*Transform](e)
	if !ok {
		return vmath.Vec3{}, false
	}
	return t.Position, true
}
