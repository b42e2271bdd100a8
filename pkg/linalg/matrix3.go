package linalg

import "github.com/chewxy/math32"

// Matrix3 is a row-major 3x3 single-precision matrix.
type Matrix3 [3][3]float32

// DiagMatrix3 builds a diagonal matrix from a single value, mirroring
// the original fusion code's initDiagonalMatrix helper.
func DiagMatrix3(d float32) Matrix3 {
	return Matrix3{{d, 0, 0}, {0, d, 0}, {0, 0, d}}
}

// Identity3 is the 3x3 identity matrix.
func Identity3() Matrix3 {
	return DiagMatrix3(1)
}

func (m Matrix3) Add(o Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] + o[i][j]
		}
	}
	return r
}

func (m Matrix3) Sub(o Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] - o[i][j]
		}
	}
	return r
}

func (m Matrix3) Scale(c float32) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] * c
		}
	}
	return r
}

// Mul returns m . o.
func (m Matrix3) Mul(o Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float32
			for k := 0; k < 3; k++ {
				s += m[i][k] * o[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// Transpose returns m^T.
func (m Matrix3) Transpose() Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[j][i] = m[i][j]
		}
	}
	return r
}

// MulTransposed returns m . o^T, avoiding an intermediate transpose
// allocation. Used on the hot path of the covariance recursion.
func (m Matrix3) MulTransposed(o Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float32
			for k := 0; k < 3; k++ {
				s += m[i][k] * o[j][k]
			}
			r[i][j] = s
		}
	}
	return r
}

// Apply returns m . v.
func (m Matrix3) Apply(v Vector3) Vector3 {
	return Vector3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Columns builds a matrix whose columns are the given vectors.
func Columns(c0, c1, c2 Vector3) Matrix3 {
	return Matrix3{
		{c0[0], c1[0], c2[0]},
		{c0[1], c1[1], c2[1]},
		{c0[2], c1[2], c2[2]},
	}
}

// Determinant returns the 3x3 determinant.
func (m Matrix3) Determinant() float32 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns the matrix inverse and whether the matrix was
// (numerically) invertible. On failure, the zero matrix is returned
// with ok false; internal/fusion's update skips the measurement in
// that case.
func (m Matrix3) Inverse() (Matrix3, bool) {
	det := m.Determinant()
	if math32.Abs(det) < 1e-20 {
		return Matrix3{}, false
	}
	invDet := 1 / det
	var r Matrix3
	r[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * invDet
	r[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * invDet
	r[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * invDet
	r[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * invDet
	r[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * invDet
	r[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * invDet
	r[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * invDet
	r[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * invDet
	r[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * invDet
	return r, true
}

// Trace returns the sum of the diagonal elements.
func (m Matrix3) Trace() float32 {
	return m[0][0] + m[1][1] + m[2][2]
}

// IsSymmetric reports whether m equals its transpose within tol.
func (m Matrix3) IsSymmetric(tol float32) bool {
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if math32.Abs(m[i][j]-m[j][i]) > tol {
				return false
			}
		}
	}
	return true
}

// IsPositiveSemidefinite reports whether m is symmetric within tol and
// has non-negative leading principal minors (Sylvester's criterion),
// the same check the original fusion code runs on each diagonal
// covariance block after predict/update.
func (m Matrix3) IsPositiveSemidefinite(tol float32) bool {
	if !m.IsSymmetric(tol) {
		return false
	}
	if m[0][0] < -tol {
		return false
	}
	minor2 := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	if minor2 < -tol {
		return false
	}
	if m.Determinant() < -tol {
		return false
	}
	return true
}
