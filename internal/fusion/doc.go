// Package fusion implements the indirect (error-state) extended Kalman
// filter that turns accelerometer, magnetometer and gyroscope samples
// into an orientation quaternion and gyro bias estimate.
//
// The package does no I/O and no logging: callers in pkg/devices and
// cmd/fusiond own sampling, units conversion and diagnostics, and feed
// this package only physical-unit vectors and a Result to act on.
package fusion
