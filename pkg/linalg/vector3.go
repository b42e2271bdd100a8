// Package linalg provides the fixed-size, single-precision vector,
// quaternion and matrix primitives the fusion estimator is built on.
//
// Every type is a small value (an array, not a slice), so engines built
// on top of this package stay stack-allocatable: nothing here escapes
// to the heap on its own.
package linalg

import "github.com/chewxy/math32"

// Vector3 is a 3-component single-precision vector.
type Vector3 [3]float32

// NewVector3 builds a Vector3 from its components.
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{x, y, z}
}

func (v Vector3) X() float32 { return v[0] }
func (v Vector3) Y() float32 { return v[1] }
func (v Vector3) Z() float32 { return v[2] }

// XYZ returns the components as a tuple.
func (v Vector3) XYZ() (float32, float32, float32) {
	return v[0], v[1], v[2]
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vector3) Scale(c float32) Vector3 {
	return Vector3{v[0] * c, v[1] * c, v[2] * c}
}

func (v Vector3) Neg() Vector3 {
	return Vector3{-v[0], -v[1], -v[2]}
}

// Dot returns the scalar (inner) product.
func (v Vector3) Dot(o Vector3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vector3) NormSquared() float32 {
	return v.Dot(v)
}

func (v Vector3) Norm() float32 {
	return math32.Sqrt(v.NormSquared())
}

// Normalize returns v scaled to unit length. If v is (numerically) the
// zero vector, it is returned unchanged — callers that require a unit
// result must check Norm first, matching the C original's habit of
// normalizing only where the caller has already excluded the zero case.
func (v Vector3) Normalize() Vector3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Skew returns the 3x3 skew-symmetric matrix [v]x such that
// [v]x . u == v x u for any u.
func (v Vector3) Skew() Matrix3 {
	return Matrix3{
		{0, -v[2], v[1]},
		{v[2], 0, -v[0]},
		{-v[1], v[0], 0},
	}
}

// OrthogonalUnit returns an arbitrary unit vector orthogonal to v, used
// during bootstrap to synthesize an "east" reference when no
// magnetometer is present. Picks the axis least aligned with v to
// avoid the near-parallel-cross-product degeneracy.
func (v Vector3) OrthogonalUnit() Vector3 {
	ax, ay, az := math32.Abs(v[0]), math32.Abs(v[1]), math32.Abs(v[2])
	var axis Vector3
	switch {
	case ax <= ay && ax <= az:
		axis = Vector3{1, 0, 0}
	case ay <= ax && ay <= az:
		axis = Vector3{0, 1, 0}
	default:
		axis = Vector3{0, 0, 1}
	}
	return v.Cross(axis).Normalize()
}
