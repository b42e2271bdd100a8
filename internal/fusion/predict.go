package fusion

import (
	"github.com/chewxy/math32"
	"github.com/itohio/fusion/pkg/linalg"
)

// predictSingularityThreshold is the minimum bias-corrected angular
// rate magnitude Predict will act on; below it the small-angle
// expansion used to build the quaternion update matrix is singular, so
// Predict is a no-op (spec.md §4.3 step 2).
const predictSingularityThreshold = 1e-4

// Predict advances the orientation and covariance through dT seconds of
// body-frame angular rate w (spec.md §4.3). It is a no-op if the
// bias-corrected rate is too small to integrate safely.
func (e *Engine) Predict(w linalg.Vector3, dT float32) {
	we := w.Sub(e.x1)
	normWe := we.Norm()
	if math32.Abs(normWe) < predictSingularityThreshold {
		return
	}

	theta := normWe * dT
	phi := theta / 2
	inv := 1 / normWe

	k0 := (1 - math32.Cos(theta)) * (inv * inv)
	k1 := math32.Sin(theta)
	k2 := math32.Cos(phi)

	psi := we.Scale(math32.Sin(phi) * inv)

	e.x0 = applyQuaternionUpdate(e.x0, psi, k2)
	if e.x0.W() < 0 {
		e.x0 = e.x0.Neg()
	}

	skewWe := we.Skew()
	skewWe2 := skewWe.Mul(skewWe)
	identity := linalg.Identity3()

	e.phi0[0] = identity.Sub(skewWe.Scale(k1 * inv)).Add(skewWe2.Scale(k0))
	e.phi0[1] = skewWe.Scale(k0).Sub(identity.Scale(dT)).Sub(skewWe2.Scale(inv * inv * inv * (theta - k1)))

	var pNew blockMatrix
	pNew[0][0] = e.phi0[0].Mul(e.p[0][0]).Add(e.phi0[1].Mul(e.p[1][0]))
	pNew[0][1] = e.phi0[0].Mul(e.p[0][1]).Add(e.phi0[1].Mul(e.p[1][1]))
	pNew[1][0] = e.p[1][0]
	pNew[1][1] = e.p[1][1]

	e.p[0][0] = pNew[0][0].MulTransposed(e.phi0[0]).Add(pNew[0][1].MulTransposed(e.phi0[1]))
	e.p[0][1] = pNew[0][1]
	e.p[1][0] = pNew[1][0].MulTransposed(e.phi0[0]).Add(pNew[1][1].MulTransposed(e.phi0[1]))
	e.p[1][1] = pNew[1][1]

	e.p = e.p.add(e.gqgt)

	e.checkState()
}

// applyQuaternionUpdate applies the 4x4 orthogonal quaternion-update
// matrix O (spec.md §4.3 step 5) to q. O's upper-left 3x3 is
// k2*I + [-psi]x, its last column is (psi, k2) and its last row is
// (-psi, k2).
func applyQuaternionUpdate(q linalg.Quaternion, psi linalg.Vector3, k2 float32) linalg.Quaternion {
	qx, qy, qz, qw := q.X(), q.Y(), q.Z(), q.W()
	px, py, pz := psi.X(), psi.Y(), psi.Z()

	x := k2*qx + pz*qy - py*qz + px*qw
	y := -pz*qx + k2*qy + px*qz + py*qw
	z := py*qx - px*qy + k2*qz + pz*qw
	w := -px*qx - py*qy - pz*qz + k2*qw

	return linalg.Quaternion{x, y, z, w}
}
