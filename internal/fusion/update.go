package fusion

import "github.com/itohio/fusion/pkg/linalg"

// update is the generic vector-measurement Kalman correction (spec.md
// §4.4): z is a measured unit vector in the body frame, bi is the
// corresponding world-frame reference, and sigma is the measurement's
// standard deviation. It corrects the orientation, the bias (only in
// ModeFull — see DESIGN.md), and shrinks the covariance.
func (e *Engine) update(z, bi linalg.Vector3, sigma float32) {
	worldToBody := e.x0.RotationMatrix().Transpose()
	bb := worldToBody.Apply(bi)

	l := bb.Skew()
	lt := l.Transpose()

	s := l.Mul(e.p[0][0]).MulTransposed(l).Add(linalg.DiagMatrix3(sigma * sigma))

	sInv, ok := s.Inverse()
	if !ok {
		// Non-invertible innovation covariance: skip this measurement
		// rather than propagate a garbage gain. sigma > 0 keeps this
		// from happening in practice.
		return
	}

	ltSi := lt.Mul(sInv)
	k0 := e.p[0][0].Mul(ltSi)
	k1 := e.p[0][1].Mul(ltSi)

	k0L := k0.Mul(l)
	k1L := k1.Mul(l)

	p00 := e.p[0][0].Sub(k0L.Mul(e.p[0][0]))
	p11 := e.p[1][1].Sub(k1L.Mul(e.p[0][1]))
	p01 := e.p[0][1].Sub(k0L.Mul(e.p[0][1]))

	e.p[0][0] = p00
	e.p[1][1] = p11
	e.p[0][1] = p01
	e.p[1][0] = p01.Transpose()

	innovation := z.Sub(bb)
	dq := k0.Apply(innovation)

	e.x0 = applyQuaternionCorrection(e.x0, dq).Normalize()

	if e.mode == ModeFull {
		e.x1 = e.x1.Add(k1.Apply(innovation))
	}

	e.checkState()
}

// applyQuaternionCorrection applies the 4x3 "F" matrix derived from q
// (spec.md §4.4 step 8) to the orientation-error correction dq,
// producing the corrected (unnormalized) quaternion.
func applyQuaternionCorrection(q linalg.Quaternion, dq linalg.Vector3) linalg.Quaternion {
	x, y, z, w := q.X(), q.Y(), q.Z(), q.W()
	dx, dy, dz := dq.X(), dq.Y(), dq.Z()

	f0 := linalg.Quaternion{w, z, -y, -x}
	f1 := linalg.Quaternion{-z, w, x, -y}
	f2 := linalg.Quaternion{y, -x, w, -z}

	return linalg.Quaternion{
		x + 0.5*(f0[0]*dx+f1[0]*dy+f2[0]*dz),
		y + 0.5*(f0[1]*dx+f1[1]*dy+f2[1]*dz),
		z + 0.5*(f0[2]*dx+f1[2]*dy+f2[2]*dz),
		w + 0.5*(f0[3]*dx+f1[3]*dy+f2[3]*dz),
	}
}
