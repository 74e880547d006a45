// Package utils carries small, allocation-free math helpers shared by
// the mesh, geometry, gradient, and flux packages.
package utils

import "math"

// Tol is the default tolerance used for near-zero comparisons.
const Tol = 1.e-12

// Vec3 is a global-frame 3-D point or vector.
type Vec3 struct {
	X, Y, Z float64
}

func NewVec3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Norm() float64 { return math.Sqrt(a.Dot(a)) }

// Normalize returns a unit vector parallel to a. It panics if a has
// (near) zero length; callers that can receive a degenerate triangle
// must check Norm() first and report MeshDegenerate themselves.
func (a Vec3) Normalize() Vec3 {
	n := a.Norm()
	if n < Tol {
		panic("utils: cannot normalize a near-zero vector")
	}
	return a.Scale(1 / n)
}

// Vec2 is a 2-D vector expressed in some cell's local frame.
type Vec2 struct {
	X, Y float64
}

func NewVec2(x, y float64) Vec2 { return Vec2{x, y} }

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Norm() float64        { return math.Sqrt(a.Dot(a)) }

// Perp returns the vector rotated +90 degrees, the usual
// normalize(-dy, dx) normal-from-edge construction.
func (a Vec2) Perp() Vec2 { return Vec2{-a.Y, a.X} }

func (a Vec2) Normalize() Vec2 {
	n := a.Norm()
	if n < Tol {
		panic("utils: cannot normalize a near-zero 2-vector")
	}
	return a.Scale(1 / n)
}

// Mat2 is a dense 2x2 matrix stored row-major, used for the velocity
// rotation T and the least-squares gradient's normal
// matrix.
type Mat2 struct {
	M00, M01 float64
	M10, M11 float64
}

func (m Mat2) Apply(v Vec2) Vec2 {
	return Vec2{
		m.M00*v.X + m.M01*v.Y,
		m.M10*v.X + m.M11*v.Y,
	}
}

func (m Mat2) Det() float64 { return m.M00*m.M11 - m.M01*m.M10 }

// Inverse returns the closed-form 2x2 inverse and ok=false when the
// matrix is (near) singular, taking the "if det = 0,
// return (0,0)" fallback instead of panicking.
func (m Mat2) Inverse() (inv Mat2, ok bool) {
	det := m.Det()
	if math.Abs(det) < Tol {
		return Mat2{}, false
	}
	invDet := 1 / det
	return Mat2{
		M00: m.M11 * invDet, M01: -m.M01 * invDet,
		M10: -m.M10 * invDet, M11: m.M00 * invDet,
	}, true
}

// Clamp restricts v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
