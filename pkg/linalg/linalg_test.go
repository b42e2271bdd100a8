package linalg

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestVector3_CrossAndSkew(t *testing.T) {
	v := Vector3{1, 2, 3}
	u := Vector3{4, 5, 6}

	want := v.Cross(u)
	got := v.Skew().Apply(u)

	assert.InDelta(t, want[0], got[0], 1e-5)
	assert.InDelta(t, want[1], got[1], 1e-5)
	assert.InDelta(t, want[2], got[2], 1e-5)
}

func TestVector3_Normalize(t *testing.T) {
	v := Vector3{3, 0, 4}.Normalize()
	assert.InDelta(t, float32(1), v.Norm(), 1e-6)
}

func TestVector3_OrthogonalUnit(t *testing.T) {
	for _, up := range []Vector3{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}, {1, 1, 1}} {
		up = up.Normalize()
		east := up.OrthogonalUnit()
		assert.InDelta(t, float32(1), east.Norm(), 1e-5)
		assert.InDelta(t, float32(0), up.Dot(east), 1e-4)
	}
}

func TestQuaternion_RotationMatrixRoundTrip(t *testing.T) {
	tests := []Quaternion{
		IdentityQuaternion(),
		{0, 0, math32.Sin(math32.Pi / 4), math32.Cos(math32.Pi / 4)},
		Quaternion{0.1, 0.2, 0.3, 0.9}.Normalize(),
	}

	for _, q := range tests {
		m := q.RotationMatrix()
		back := QuaternionFromRotationMatrix(m)

		if q.W()*back.W() < 0 {
			back = back.Neg()
		}

		assert.InDelta(t, q[0], back[0], 1e-4)
		assert.InDelta(t, q[1], back[1], 1e-4)
		assert.InDelta(t, q[2], back[2], 1e-4)
		assert.InDelta(t, q[3], back[3], 1e-4)
	}
}

func TestQuaternion_RotationMatrixIsOrthonormal(t *testing.T) {
	q := Quaternion{0.2, -0.1, 0.4, 0.8}.Normalize()
	m := q.RotationMatrix()

	up := m.Apply(Vector3{0, 0, 1})
	north := m.Apply(Vector3{0, 1, 0})

	assert.InDelta(t, float32(1), up.Norm(), 1e-5)
	assert.InDelta(t, float32(1), north.Norm(), 1e-5)
	assert.InDelta(t, float32(0), up.Dot(north), 1e-5)
}

func TestMatrix3_Inverse(t *testing.T) {
	m := Identity3().Scale(2)
	inv, ok := m.Inverse()
	assert.True(t, ok)

	prod := m.Mul(inv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, prod[i][j], 1e-5)
		}
	}
}

func TestMatrix3_InverseSingular(t *testing.T) {
	_, ok := Matrix3{}.Inverse()
	assert.False(t, ok)
}

func TestMatrix3_IsPositiveSemidefinite(t *testing.T) {
	assert.True(t, Identity3().IsPositiveSemidefinite(1e-10))

	notSymmetric := Matrix3{{1, 2, 0}, {0, 1, 0}, {0, 0, 1}}
	assert.False(t, notSymmetric.IsPositiveSemidefinite(1e-10))

	negDef := Matrix3{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
	assert.False(t, negDef.IsPositiveSemidefinite(1e-10))
}
