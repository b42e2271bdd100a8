package fusion

// Flags select which sensor streams the engine operates on. They are
// set at construction (spec.md §3) and replaced by each Init call;
// Init without Reinitialize also narrows the bootstrap readiness to
// the sensors the new flags require.
type Flags uint8

const (
	// UseGyro enables the rate-gyroscope input and the quaternion
	// propagation it drives.
	UseGyro Flags = 1 << iota
	// UseMag enables the magnetometer input and full heading
	// observability.
	UseMag
	// Reinitialize discards any existing filter state and bootstrap
	// accumulators instead of narrowing them to the new mode.
	Reinitialize
)

// Mode is the derived operating envelope for a given Flags value. It
// exists only for readability at call sites and in log fields — it is
// recomputed from Flags, never stored in a way that could desync from
// them.
type Mode int

const (
	// ModeInvalid is neither gyro- nor mag-driven. Init accepts it
	// without error; its bootstrap then requires accelerometer samples
	// only.
	ModeInvalid Mode = iota
	// ModeFull is the 9-DOF configuration: gyro propagation plus
	// accelerometer and magnetometer corrections.
	ModeFull
	// ModeGameRotation has no magnetometer: gyro propagation with
	// accelerometer-only correction, and a synthesized heartbeat
	// update to keep the heading covariance bounded.
	ModeGameRotation
	// ModeGeomag has no gyroscope: the accelerometer sample period
	// substitutes for a rate signal.
	ModeGeomag
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeGameRotation:
		return "game-rotation"
	case ModeGeomag:
		return "geomag"
	default:
		return "invalid"
	}
}

func modeOf(flags Flags) Mode {
	switch {
	case flags&UseGyro != 0 && flags&UseMag != 0:
		return ModeFull
	case flags&UseGyro != 0:
		return ModeGameRotation
	case flags&UseMag != 0:
		return ModeGeomag
	default:
		return ModeInvalid
	}
}
