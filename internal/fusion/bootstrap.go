package fusion

import "github.com/itohio/fusion/pkg/linalg"

// readyBits is a per-sensor "seen enough" bitfield. It replaces the
// original firmware's raw mInitState integer (ACC=1, MAG=2, GYRO=4)
// with named bits, kept small since it is compared by value constantly
// on the sample-handling hot path.
type readyBits uint8

const (
	readyAcc readyBits = 1 << iota
	readyMag
	readyGyro
)

// requiredBits returns the bits a given mode must see before
// has_estimate() is true (spec.md §4.2).
func requiredBits(mode Mode) readyBits {
	bits := readyAcc
	if mode == ModeFull || mode == ModeGeomag {
		bits |= readyMag
	}
	if mode == ModeFull || mode == ModeGameRotation {
		bits |= readyGyro
	}
	return bits
}

// accSamplesToBootstrap is how many accelerometer samples are averaged
// to suppress noise in the initial gravity direction.
const accSamplesToBootstrap = 32

// bootstrapState accumulates raw samples until an initial attitude can
// be derived and the Kalman state seeded (spec.md §4.2).
type bootstrapState struct {
	have  readyBits
	count [3]int
	data  [3]linalg.Vector3
	// gyroRate is the last observed sample period, captured from
	// whichever stream is the timing source.
	gyroRate float32
}

const (
	idxAcc = iota
	idxMag
	idxGyro
)

func (b *bootstrapState) reset() {
	*b = bootstrapState{}
}

// narrowTo masks off bits for sensors the new mode no longer requires,
// per spec.md §4.1 ("narrows mInitState to the bits actually
// required").
func (b *bootstrapState) narrowTo(mode Mode) {
	b.have &= requiredBits(mode)
}

func (b *bootstrapState) complete(mode Mode) bool {
	return b.have == requiredBits(mode)
}

// observeAcc folds an accelerometer sample into the bootstrap
// accumulator. If the engine has no gyro, the acc stream also supplies
// the timing reference.
func (b *bootstrapState) observeAcc(mode Mode, d linalg.Vector3, dT float32) {
	if mode != ModeFull && mode != ModeGameRotation {
		b.gyroRate = dT
	}
	b.data[idxAcc] = b.data[idxAcc].Add(d.Normalize())
	b.count[idxAcc]++
	if b.count[idxAcc] == accSamplesToBootstrap {
		b.have |= readyAcc
	}
}

// observeMag folds a magnetometer sample into the bootstrap
// accumulator. A single sample is sufficient; the mag bit is sticky
// after the first one.
func (b *bootstrapState) observeMag(d linalg.Vector3) {
	b.data[idxMag] = b.data[idxMag].Add(d.Normalize())
	b.count[idxMag]++
	b.have |= readyMag
}

// observeGyro folds a gyro sample into the bootstrap accumulator.
// Bootstrap does not integrate gyro into attitude; it only records
// presence and timing.
func (b *bootstrapState) observeGyro(d linalg.Vector3, dT float32) {
	b.gyroRate = dT
	b.data[idxGyro] = b.data[idxGyro].Add(d.Scale(dT))
	b.count[idxGyro]++
	b.have |= readyGyro
}

// bootstrapAcc folds an acc sample into bootstrap and seeds the filter
// if this sample completes it. Must only be called while !HasEstimate().
func (e *Engine) bootstrapAcc(d linalg.Vector3, dT float32) {
	e.boot.observeAcc(e.mode, d, dT)
	e.maybeSeed()
}

// bootstrapMag folds a mag sample into bootstrap and seeds the filter
// if this sample completes it. Must only be called while !HasEstimate().
func (e *Engine) bootstrapMag(d linalg.Vector3) {
	e.boot.observeMag(d)
	e.maybeSeed()
}

// bootstrapGyro folds a gyro sample into bootstrap and seeds the
// filter if this sample completes it. Must only be called while
// !HasEstimate().
func (e *Engine) bootstrapGyro(d linalg.Vector3, dT float32) {
	e.boot.observeGyro(d, dT)
	e.maybeSeed()
}

// maybeSeed finalizes bootstrap into the Kalman state the moment all
// required sensor bits are present (spec.md §4.2, "evaluated at end of
// each handler").
func (e *Engine) maybeSeed() {
	if !e.boot.complete(e.mode) {
		return
	}
	q := e.boot.finalize(e.mode)
	e.seed(q, e.boot.gyroRate)
}

// finalize builds the initial attitude quaternion from the averaged
// accumulators (spec.md §4.2 steps 1-4). It must only be called once
// complete(mode) is true.
func (b *bootstrapState) finalize(mode Mode) linalg.Quaternion {
	up := b.data[idxAcc].Scale(1 / float32(b.count[idxAcc])).Normalize()

	var east linalg.Vector3
	if mode == ModeFull || mode == ModeGeomag {
		magAvg := b.data[idxMag].Scale(1 / float32(b.count[idxMag]))
		east = magAvg.Cross(up).Normalize()
	} else {
		east = up.OrthogonalUnit()
	}

	north := up.Cross(east)

	// Columns(east, north, up) maps world axes to their body-frame
	// components, i.e. it is world->body. QuaternionFromRotationMatrix
	// expects a body->world matrix (matching Quaternion.RotationMatrix),
	// so seed from its transpose — otherwise the very first update()
	// call after bootstrap would see an attitude that is the inverse of
	// what the accumulated samples actually measured.
	worldToBody := linalg.Columns(east, north, up)
	return linalg.QuaternionFromRotationMatrix(worldToBody.Transpose())
}
