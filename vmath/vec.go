package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Vec2 = mgl32.Vec2
type Vec3 = mgl32.Vec3
type Vec4 = mgl32.Vec4
type Mat4 = mgl32.Mat4

func UnitX() Vec3 { return Vec3{1, 0, 0} }
func UnitY() Vec3 { return Vec3{0, 1, 0} }
func UnitZ() Vec3 { return Vec3{0, 0, 1} }

// Fill returns a vector with every component set to v.
func Fill(v float32) Vec3 { return Vec3{v, v, v} }

func LengthSquared2(v Vec2) float32 { return v.Dot(v) }
func LengthSquared3(v Vec3) float32 { return v.Dot(v) }

// Horizontal projects v onto the ground plane as (x, z).
func Horizontal(v Vec3) Vec2 { return Vec2{v.X(), v.Z()} }

// Normal2 returns v scaled to unit length, or the zero vector when v has no length.
func Normal2(v Vec2) Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Mul(1 / l)
}

// Normal3 returns v scaled to unit length, or the zero vector when v has no length.
func Normal3(v Vec3) Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Floor3 returns the integer cell containing v.
func Floor3(v Vec3) [3]int {
	return [3]int{
		int(math.Floor(float64(v.X()))),
		int(math.Floor(float64(v.Y()))),
		int(math.Floor(float64(v.Z()))),
	}
}

func ToRadians(degrees float32) float32 {
	return degrees * math.Pi / 180
}

// Clamp bounds value to [lo, hi].
func Clamp(lo, hi, value float32) float32 {
	return max(lo, min(hi, value))
}

// Lerp blends a and b; a ratio of 1 yields a, 0 yields b.
func Lerp(a, b, ratio float32) float32 {
	t := Clamp(0, 1, ratio)
	return t*a + (1-t)*b
}
