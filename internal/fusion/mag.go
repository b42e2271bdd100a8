package fusion

import "github.com/itohio/fusion/pkg/linalg"

// magFieldMin2 and magFieldMax2 bound the plausible Earth field
// magnitude, squared, in microtesla (spec.md §4.6 step 2): anything
// outside [10, 100] uT is treated as local magnetic interference
// rather than the ambient field.
const (
	magFieldMin2 = 10 * 10
	magFieldMax2 = 100 * 100
)

// magEastMin2 is the minimum squared magnitude of the body-frame east
// candidate (spec.md §4.6 step 4); below it the field is parallel to
// gravity and carries no heading information.
const magEastMin2 = 1e-3 * 1e-3

// HandleMag folds a magnetometer sample m (microtesla, body frame)
// into the engine.
func (e *Engine) HandleMag(m linalg.Vector3) Result {
	if !e.HasEstimate() {
		e.bootstrapMag(m)
		return BootstrapInProgress
	}

	norm2 := m.NormSquared()
	if norm2 > magFieldMax2 || norm2 < magFieldMin2 {
		return OutOfEnvelope
	}

	up := e.x0.RotationMatrix().Transpose().Apply(e.ba)

	east := m.Cross(up)
	if east.NormSquared() < magEastMin2 {
		return OutOfEnvelope
	}

	upCrossEast := up.Cross(east)
	norm := upCrossEast.Norm()
	invNorm := 1 / norm
	north := upCrossEast.Scale(invNorm)

	e.update(north, e.bm, e.param.magStdev*invNorm)
	return Accepted
}
