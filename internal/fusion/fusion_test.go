package fusion

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/itohio/fusion/pkg/linalg"
)

// feedStationaryBootstrap drives enough acc+mag+gyro samples (as
// required by mode) to complete bootstrap for a level, north-facing
// sensor, and returns the resulting engine.
func feedStationaryBootstrap(t *testing.T, mode Mode) *Engine {
	t.Helper()

	var flags Flags
	switch mode {
	case ModeFull:
		flags = UseGyro | UseMag
	case ModeGameRotation:
		flags = UseGyro
	case ModeGeomag:
		flags = UseMag
	}
	e := New(flags)

	up := linalg.NewVector3(0, 0, 9.81)
	north := linalg.NewVector3(0, 30, -40)
	zeroRate := linalg.Vector3{}

	var last Result
	for i := 0; i < accSamplesToBootstrap; i++ {
		last = e.HandleAcc(up, 0.01)
		if mode == ModeFull || mode == ModeGeomag {
			e.HandleMag(north)
		}
		if mode == ModeFull || mode == ModeGameRotation {
			e.HandleGyro(zeroRate, 0.01)
		}
	}
	if !e.HasEstimate() {
		t.Fatalf("expected bootstrap complete after %d acc samples, last=%v", accSamplesToBootstrap, last)
	}
	return e
}

// TestBootstrap_TiltedAttitude_RotationMatrixMatchesMeasuredFrame covers
// spec.md §8 scenario 1's geometric property on a non-axis-aligned
// attitude: the acc/mag bootstrap samples here are not the identity
// rotation, so a world<->body convention mismatch between seed() and
// update()/HandleMag() (as opposed to a pure normalization bug) would
// show up as a wrong direction here, not just a wrong magnitude.
func TestBootstrap_TiltedAttitude_RotationMatrixMatchesMeasuredFrame(t *testing.T) {
	e := New(UseGyro | UseMag)

	// Body frame tilted so that "up" reads along body +Y and the
	// horizontal magnetic field reads along body +X: east=(0,0,1),
	// north=(1,0,0), up=(0,1,0) in body coordinates.
	accUp := linalg.NewVector3(0, 9.81, 0)
	magNorth := linalg.NewVector3(50, 0, 0)
	zeroRate := linalg.Vector3{}

	for i := 0; i < accSamplesToBootstrap; i++ {
		e.HandleAcc(accUp, 0.01)
		e.HandleMag(magNorth)
		e.HandleGyro(zeroRate, 0.01)
	}
	if !e.HasEstimate() {
		t.Fatalf("expected bootstrap complete")
	}

	worldToBody := e.GetRotationMatrix().Transpose()

	gotUp := worldToBody.Apply(linalg.NewVector3(0, 0, 1))
	wantUp := linalg.NewVector3(0, 1, 0)
	if d := gotUp.Sub(wantUp).Norm(); d > 1e-3 {
		t.Errorf("world-up rotated into body frame: got %v, want %v (diff %f)", gotUp, wantUp, d)
	}

	gotNorth := worldToBody.Apply(linalg.NewVector3(0, 1, 0))
	wantNorth := linalg.NewVector3(1, 0, 0)
	if d := gotNorth.Sub(wantNorth).Norm(); d > 1e-3 {
		t.Errorf("world-north rotated into body frame: got %v, want %v (diff %f)", gotNorth, wantNorth, d)
	}
}

func TestBootstrap_AllModesConverge(t *testing.T) {
	for _, mode := range []Mode{ModeFull, ModeGameRotation, ModeGeomag} {
		e := feedStationaryBootstrap(t, mode)
		q := e.GetAttitude()
		if math32.Abs(q.Magnitude()-1) > 1e-3 {
			t.Errorf("mode %v: expected unit attitude quaternion, got magnitude %f", mode, q.Magnitude())
		}
	}
}

func TestBootstrap_AccReturnsInProgressUntilComplete(t *testing.T) {
	e := New(UseGyro | UseMag)
	up := linalg.NewVector3(0, 0, 9.81)
	for i := 0; i < accSamplesToBootstrap-1; i++ {
		if r := e.HandleAcc(up, 0.01); r != BootstrapInProgress {
			t.Fatalf("sample %d: expected BootstrapInProgress, got %v", i, r)
		}
	}
	if e.HasEstimate() {
		t.Fatalf("expected bootstrap still incomplete: gyro and mag never observed")
	}
}

func TestHandleGyro_PureYawTracksHeading(t *testing.T) {
	e := feedStationaryBootstrap(t, ModeFull)

	const dT = float32(0.01)
	const rate = float32(0.5) // rad/s about body Z
	const steps = 200         // 2 seconds of yaw

	w := linalg.NewVector3(0, 0, rate)
	for i := 0; i < steps; i++ {
		if r := e.HandleGyro(w, dT); !r.IsAccepted() {
			t.Fatalf("step %d: expected Accepted, got %v", i, r)
		}
	}

	_, _, yaw := e.GetAttitude().Roll(), e.GetAttitude().Pitch(), e.GetAttitude().Yaw()
	wantYaw := rate * dT * steps
	// Wrap into (-pi, pi] for comparison against Atan2's range.
	for wantYaw > math32.Pi {
		wantYaw -= 2 * math32.Pi
	}
	if diff := math32.Abs(yaw - wantYaw); diff > 0.05 {
		t.Errorf("expected yaw ~%f after %d steps, got %f", wantYaw, steps, yaw)
	}
}

func TestHandleAcc_FreeFallRejected(t *testing.T) {
	e := feedStationaryBootstrap(t, ModeFull)
	r := e.HandleAcc(linalg.Vector3{}, 0.01)
	if r != OutOfEnvelope {
		t.Errorf("expected OutOfEnvelope for a zero acceleration sample, got %v", r)
	}
}

func TestHandleMag_OutOfRangeFieldRejected(t *testing.T) {
	e := feedStationaryBootstrap(t, ModeFull)
	tooStrong := linalg.NewVector3(0, 1000, 0)
	if r := e.HandleMag(tooStrong); r != OutOfEnvelope {
		t.Errorf("expected OutOfEnvelope for an implausibly strong field, got %v", r)
	}
}

func TestGameRotation_HeartbeatKeepsCovariancePositiveSemidefinite(t *testing.T) {
	e := feedStationaryBootstrap(t, ModeGameRotation)

	w := linalg.NewVector3(0.01, 0, 0)
	up := linalg.NewVector3(0, 0, 9.81)
	for i := 0; i < 500; i++ {
		e.HandleGyro(w, 0.01)
		e.HandleAcc(up, 0.01)
	}

	if !e.p[0][0].IsPositiveSemidefinite(1e-6) {
		t.Errorf("expected orientation covariance to remain positive semidefinite after sustained heartbeats")
	}
}

func TestGeomag_NoGyroStillTracksAttitude(t *testing.T) {
	e := feedStationaryBootstrap(t, ModeGeomag)
	up := linalg.NewVector3(0, 0, 9.81)
	north := linalg.NewVector3(0, 30, -40)

	for i := 0; i < 50; i++ {
		if r := e.HandleAcc(up, 0.01); !r.IsAccepted() {
			t.Fatalf("step %d: expected Accepted, got %v", i, r)
		}
		e.HandleMag(north)
	}

	q := e.GetAttitude()
	if math32.Abs(q.Magnitude()-1) > 1e-3 {
		t.Errorf("expected unit attitude quaternion in geomag mode, got magnitude %f", q.Magnitude())
	}
}

func TestReinitialize_ClearsBootstrapAndState(t *testing.T) {
	e := feedStationaryBootstrap(t, ModeFull)
	e.Init(UseGyro | UseMag | Reinitialize)
	if e.HasEstimate() {
		t.Errorf("expected HasEstimate to be false immediately after Reinitialize")
	}
	if e.GetBias() != (linalg.Vector3{}) {
		t.Errorf("expected bias cleared after Reinitialize, got %v", e.GetBias())
	}
}
