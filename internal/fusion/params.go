package fusion

// Process-noise defaults, carried unchanged from the original firmware's
// #define table (original_source/firmware/src/fusion/fusion.c). Normal
// mode trusts the gyro as the primary propagation source; geomag mode
// has no gyro and uses the accelerometer as a noisier surrogate, hence
// the larger variances.
const (
	defaultGyroVar     = 1e-7
	defaultGyroBiasVar = 1e-12
	defaultAccStdev    = 1.5e-2
	defaultMagStdev    = 1.0e-2

	geomagGyroVar     = 1e-4
	geomagGyroBiasVar = 1e-8
	geomagAccStdev    = 0.05
	geomagMagStdev    = 0.1
)

// params holds the process-noise parameters used to build GQGt at
// bootstrap completion and the adaptive weighting in the accelerometer
// and magnetometer handlers.
type params struct {
	gyroVar     float32
	gyroBiasVar float32
	accStdev    float32
	magStdev    float32
}

func paramsFor(mode Mode) params {
	if mode == ModeGeomag {
		return params{
			gyroVar:     geomagGyroVar,
			gyroBiasVar: geomagGyroBiasVar,
			accStdev:    geomagAccStdev,
			magStdev:    geomagMagStdev,
		}
	}
	return params{
		gyroVar:     defaultGyroVar,
		gyroBiasVar: defaultGyroBiasVar,
		accStdev:    defaultAccStdev,
		magStdev:    defaultMagStdev,
	}
}
