package linalg

import "github.com/chewxy/math32"

// Quaternion is a unit quaternion in (x, y, z, w) order — scalar last,
// matching the teacher's vec.Quaternion layout. It represents a
// rotation from the body frame to the world frame unless noted
// otherwise at the call site.
type Quaternion [4]float32

// IdentityQuaternion is the no-rotation quaternion.
func IdentityQuaternion() Quaternion {
	return Quaternion{0, 0, 0, 1}
}

func (q Quaternion) X() float32 { return q[0] }
func (q Quaternion) Y() float32 { return q[1] }
func (q Quaternion) Z() float32 { return q[2] }
func (q Quaternion) W() float32 { return q[3] }

func (q Quaternion) SumSqr() float32 {
	return q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
}

func (q Quaternion) Magnitude() float32 {
	return math32.Sqrt(q.SumSqr())
}

// Normalize returns q scaled to unit magnitude. If q is the zero
// quaternion it is returned unchanged.
func (q Quaternion) Normalize() Quaternion {
	m := q.Magnitude()
	if m == 0 {
		return q
	}
	inv := 1 / m
	return Quaternion{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// Neg returns -q (the same rotation; used to enforce a canonical sign
// on the scalar part).
func (q Quaternion) Neg() Quaternion {
	return Quaternion{-q[0], -q[1], -q[2], -q[3]}
}

// RotationMatrix converts q into the body->world rotation matrix, i.e.
// applying the result to a body-frame vector yields its world-frame
// coordinates. See SPEC_FULL.md §4.8 for why the update step instead
// uses its transpose.
func (q Quaternion) RotationMatrix() Matrix3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Matrix3{
		{1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy)},
		{2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx)},
		{2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy)},
	}
}

// QuaternionFromRotationMatrix converts a body->world rotation matrix
// into a unit quaternion (Shepperd's method), choosing whichever of
// the four component formulas avoids dividing by a near-zero term.
func QuaternionFromRotationMatrix(m Matrix3) Quaternion {
	trace := m.Trace()

	switch {
	case trace > 0:
		s := math32.Sqrt(trace+1) * 2
		w := 0.25 * s
		x := (m[2][1] - m[1][2]) / s
		y := (m[0][2] - m[2][0]) / s
		z := (m[1][0] - m[0][1]) / s
		return Quaternion{x, y, z, w}.Normalize()
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := math32.Sqrt(1+m[0][0]-m[1][1]-m[2][2]) * 2
		w := (m[2][1] - m[1][2]) / s
		x := 0.25 * s
		y := (m[0][1] + m[1][0]) / s
		z := (m[0][2] + m[2][0]) / s
		return Quaternion{x, y, z, w}.Normalize()
	case m[1][1] > m[2][2]:
		s := math32.Sqrt(1+m[1][1]-m[0][0]-m[2][2]) * 2
		w := (m[0][2] - m[2][0]) / s
		x := (m[0][1] + m[1][0]) / s
		y := 0.25 * s
		z := (m[1][2] + m[2][1]) / s
		return Quaternion{x, y, z, w}.Normalize()
	default:
		s := math32.Sqrt(1+m[2][2]-m[0][0]-m[1][1]) * 2
		w := (m[1][0] - m[0][1]) / s
		x := (m[0][2] + m[2][0]) / s
		y := (m[1][2] + m[2][1]) / s
		z := 0.25 * s
		return Quaternion{x, y, z, w}.Normalize()
	}
}

// Roll, Pitch and Yaw extract Euler angles (radians) from q, following
// the teacher's vec.Quaternion convention (x,y,z,w ordering).
func (q Quaternion) Roll() float32 {
	return math32.Atan2(q[3]*q[0]+q[1]*q[2], 0.5-q[0]*q[0]-q[1]*q[1])
}

func (q Quaternion) Pitch() float32 {
	return math32.Asin(clampUnit(-2.0 * (q[0]*q[2] - q[3]*q[1])))
}

func (q Quaternion) Yaw() float32 {
	return math32.Atan2(q[0]*q[1]+q[3]*q[2], 0.5-q[1]*q[1]-q[2]*q[2])
}

func clampUnit(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
