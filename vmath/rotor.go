package vmath

import "math"

// Rotor3 is a 3D rotation expressed as a scalar plus a bivector.
type Rotor3 struct {
	W  float32
	YZ float32
	ZX float32
	XY float32
}

func IdentityRotor() Rotor3 {
	return Rotor3{W: 1}
}

// RotorFromAxisAngle rotates by angle radians in the plane orthogonal to axis.
func RotorFromAxisAngle(axis Vec3, angle float32) Rotor3 {
	half := float64(angle) / 2
	sin := float32(math.Sin(half))
	b := Normal3(axis)
	return Rotor3{
		W:  float32(math.Cos(half)),
		YZ: b.X() * sin,
		ZX: b.Y() * sin,
		XY: b.Z() * sin,
	}
}

// Sandwich applies the rotation to v.
func (r Rotor3) Sandwich(v Vec3) Vec3 {
	l := Vec3{
		r.W*v.X() - r.ZX*v.Z() + r.XY*v.Y(),
		r.W*v.Y() + r.YZ*v.Z() - r.XY*v.X(),
		r.W*v.Z() - r.YZ*v.Y() + r.ZX*v.X(),
	}
	lxyz := r.YZ*v.X() + r.ZX*v.Y() + r.XY*v.Z()

	return Vec3{
		lxyz*r.YZ + l.X()*r.W + l.Y()*r.XY - l.Z()*r.ZX,
		lxyz*r.ZX + l.Y()*r.W - l.X()*r.XY + l.Z()*r.YZ,
		lxyz*r.XY + l.Z()*r.W + l.X()*r.ZX - l.Y()*r.YZ,
	}
}

func (r Rotor3) Mul(o Rotor3) Rotor3 {
	return Rotor3{
		W:  r.W*o.W - r.Bivector().Dot(o.Bivector()),
		YZ: r.W*o.YZ + o.W*r.YZ - r.ZX*o.XY + r.XY*o.ZX,
		ZX: r.W*o.ZX + o.W*r.ZX + r.YZ*o.XY - r.XY*o.YZ,
		XY: r.W*o.XY + o.W*r.XY - r.YZ*o.ZX + r.ZX*o.YZ,
	}
}

func (r Rotor3) MagnitudeSquared() float32 {
	return r.W*r.W + r.YZ*r.YZ + r.ZX*r.ZX + r.XY*r.XY
}

func (r Rotor3) Magnitude() float32 {
	return float32(math.Sqrt(float64(r.MagnitudeSquared())))
}

func (r Rotor3) Bivector() Vec3 {
	return Vec3{r.YZ, r.ZX, r.XY}
}

// Matrix returns the rotation as a column-major 4x4 matrix.
func (r Rotor3) Matrix() Mat4 {
	i := r.Sandwich(UnitX())
	j := r.Sandwich(UnitY())
	k := i.Cross(j)

	return Mat4{
		i.X(), i.Y(), i.Z(), 0,
		j.X(), j.Y(), j.Z(), 0,
		k.X(), k.Y(), k.Z(), 0,
		0, 0, 0, 1,
	}
}
