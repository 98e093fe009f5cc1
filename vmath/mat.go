package vmath

import "github.com/go-gl/mathgl/mgl32"

func Translated(v Vec3) Mat4 {
	return mgl32.Translate3D(v.X(), v.Y(), v.Z())
}

func Scaled(v Vec3) Mat4 {
	return mgl32.Scale3D(v.X(), v.Y(), v.Z())
}

// LookAt builds a view matrix at eye looking toward center with +Y up.
func LookAt(eye, center Vec3) Mat4 {
	return mgl32.LookAtV(eye, center, UnitY())
}
