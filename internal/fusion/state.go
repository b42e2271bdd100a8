package fusion

import "github.com/itohio/fusion/pkg/linalg"

// blockMatrix is a symmetric 6x6 matrix expressed as a 2x2 grid of 3x3
// blocks: index 0 is the orientation-error block, index 1 is the bias
// block. P[1][0] must always equal P[0][1]^T (spec.md §3).
type blockMatrix [2][2]linalg.Matrix3

func zeroBlockMatrix() blockMatrix {
	return blockMatrix{}
}

func (b blockMatrix) add(o blockMatrix) blockMatrix {
	var r blockMatrix
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			r[i][j] = b[i][j].Add(o[i][j])
		}
	}
	return r
}

// Engine is the indirect (error-state) EKF that fuses accelerometer,
// magnetometer and gyroscope samples into an orientation quaternion
// and gyro bias estimate. See SPEC_FULL.md for the full component
// breakdown; an Engine is cheap to construct, never allocates after
// construction, and is not safe for concurrent use by multiple
// producers (spec.md §5).
type Engine struct {
	flags Flags
	mode  Mode
	param params

	// World reference vectors, in the world (ENU) frame.
	ba linalg.Vector3 // up
	bm linalg.Vector3 // north

	// Filter state.
	x0 linalg.Quaternion // body->world orientation
	x1 linalg.Vector3    // gyro bias, rad/s

	p    blockMatrix // error covariance
	gqgt blockMatrix // process noise, rebuilt at each bootstrap completion
	phi0 [2]linalg.Matrix3

	boot bootstrapState

	// fakeMagDecimation accumulates elapsed time between synthesized
	// mag heartbeats in game-rotation mode (spec.md §4.5 step 4). It is
	// a field of the engine, never a package-level variable (spec.md
	// §9 REDESIGN FLAGS), so independent engines never share it.
	fakeMagDecimation float32
}

// New constructs an Engine for the given mode flags. It is equivalent
// to calling Init with flags|Reinitialize on a zero Engine.
func New(flags Flags) *Engine {
	e := &Engine{}
	e.Init(flags | Reinitialize)
	return e
}

// Init (re)configures the engine for flags (spec.md §4.1). Without
// Reinitialize, an already-initialized engine keeps its quaternion,
// bias and covariance, but its bootstrap readiness is narrowed to
// whatever the new mode still requires.
func (e *Engine) Init(flags Flags) {
	e.flags = flags &^ Reinitialize
	e.mode = modeOf(e.flags)
	e.param = paramsFor(e.mode)

	if flags&Reinitialize != 0 {
		e.ba = linalg.NewVector3(0, 0, 1)
		e.bm = linalg.NewVector3(0, 1, 0)
		e.x0 = linalg.Quaternion{}
		e.x1 = linalg.Vector3{}
		e.p = zeroBlockMatrix()
		e.gqgt = zeroBlockMatrix()
		e.phi0 = [2]linalg.Matrix3{}
		e.boot.reset()
		e.fakeMagDecimation = 0
		return
	}

	e.boot.narrowTo(e.mode)
}

// HasEstimate reports whether bootstrap has completed and the Kalman
// loop is active.
func (e *Engine) HasEstimate() bool {
	return e.boot.complete(e.mode)
}

// Mode returns the engine's derived operating envelope.
func (e *Engine) Mode() Mode {
	return e.mode
}

// seed finalizes bootstrap: it sets the initial quaternion, zeros the
// bias and covariance, and (re)builds the process-noise blocks GQGt
// from the representative sample period observed during bootstrap
// (spec.md §4.2 step 5).
func (e *Engine) seed(q linalg.Quaternion, dT float32) {
	e.x0 = q
	e.x1 = linalg.Vector3{}
	e.gqgt = buildGQGt(e.param, dT)
	e.p = zeroBlockMatrix()
}

// buildGQGt builds the four process-noise blocks for a representative
// step dT, per spec.md §4.2.
func buildGQGt(p params, dT float32) blockMatrix {
	dT2 := dT * dT
	dT3 := dT2 * dT

	q00 := p.gyroVar*dT + p.gyroBiasVar*dT3/3
	q11 := p.gyroVar * dT
	q01 := -p.gyroBiasVar * dT2 / 2

	var g blockMatrix
	g[0][0] = linalg.DiagMatrix3(q00)
	g[0][1] = linalg.DiagMatrix3(q01)
	g[1][0] = linalg.DiagMatrix3(q01)
	g[1][1] = linalg.DiagMatrix3(q11)
	return g
}

// checkState zeroes the whole covariance if either diagonal block has
// lost positive-semidefiniteness (spec.md §4.3 step 9, §9: a trust
// reset, matched bit-for-bit with the original's all-four-blocks
// zeroing rather than a partial reset).
func (e *Engine) checkState() {
	const symmetryTolerance = 1e-10
	if !e.p[0][0].IsPositiveSemidefinite(symmetryTolerance) ||
		!e.p[1][1].IsPositiveSemidefinite(symmetryTolerance) {
		e.p = zeroBlockMatrix()
	}
}

// GetAttitude returns the current body->world orientation quaternion.
// Its value is undefined before HasEstimate returns true.
func (e *Engine) GetAttitude() linalg.Quaternion {
	return e.x0
}

// GetBias returns the current gyro bias estimate, rad/s.
func (e *Engine) GetBias() linalg.Vector3 {
	return e.x1
}

// GetRotationMatrix returns the body->world rotation matrix for the
// current attitude (see SPEC_FULL.md §4.8 for the world->body
// convention used internally by Update).
func (e *Engine) GetRotationMatrix() linalg.Matrix3 {
	return e.x0.RotationMatrix()
}
