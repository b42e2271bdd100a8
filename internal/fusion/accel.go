package fusion

import (
	"github.com/chewxy/math32"
	"github.com/itohio/fusion/pkg/linalg"
)

// freeFallThreshold2 is the squared acceleration magnitude, m/s^2, below
// which a sample is rejected as free fall rather than gravity (spec.md
// §4.5 step 2): 0.1g.
const freeFallThreshold2 = 0.1 * 9.81 * 0.1 * 9.81

// geomagRateEpsilon is the small dummy angular rate used to drive
// Predict in ModeGeomag, which has no gyro of its own (spec.md §4.5
// step 3).
const geomagRateEpsilon = 1e-4

// magHeartbeatPeriod is how long ModeGameRotation free-runs on gyro
// propagation alone before a synthesized mag update pulls heading
// covariance back down (spec.md §4.5 step 4).
const magHeartbeatPeriod = 1.0

// HandleAcc folds an accelerometer sample a (m/s^2, body frame) into
// the engine. dT is the time since the previous acc sample.
func (e *Engine) HandleAcc(a linalg.Vector3, dT float32) Result {
	if !e.HasEstimate() {
		e.bootstrapAcc(a, dT)
		return BootstrapInProgress
	}

	norm2 := a.NormSquared()
	if norm2 < freeFallThreshold2 {
		return OutOfEnvelope
	}

	switch e.mode {
	case ModeGeomag:
		dummy := e.x1.Add(linalg.NewVector3(geomagRateEpsilon, geomagRateEpsilon, geomagRateEpsilon))
		e.Predict(dummy, dT)
	case ModeGameRotation:
		e.fakeMagDecimation += dT
		if e.fakeMagDecimation > magHeartbeatPeriod {
			e.fakeMagDecimation = 0
			// A zero-innovation mag "measurement": predict exactly what
			// the current attitude says the body frame would read, feed
			// it back in. This does not correct orientation but still
			// runs the Kalman gain/covariance arithmetic, which is what
			// keeps heading covariance bounded without a real
			// magnetometer (spec.md §4.5 step 4).
			predicted := e.x0.RotationMatrix().Transpose().Apply(e.bm)
			e.update(predicted, e.bm, e.param.magStdev)
		}
	}

	norm := math32.Sqrt(norm2)
	sigma := (1 / norm) * e.param.accStdev * math32.Exp(math32.Sqrt(math32.Abs(norm-9.81)))

	e.update(a.Scale(1/norm), e.ba, sigma)
	return Accepted
}
