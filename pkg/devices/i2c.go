// Package devices provides the I2C abstraction the sensor drivers are
// built on (adapted from the teacher's x/devices package), plus the
// Sample types that bridge a driver's physical-unit readings to
// internal/fusion's handlers.
package devices

import "github.com/itohio/fusion/pkg/linalg"

// I2C represents an I2C bus in controller/master mode. It is
// implemented by machine.I2C in TinyGo and by Linux I2C bus handles,
// and is the only hardware dependency any driver in this tree takes.
type I2C interface {
	// Tx performs a generic I2C transaction. addr is the 7-bit I2C
	// address (without the R/W bit). w is the write buffer (nil for a
	// read-only transaction); r is the read buffer (nil for
	// write-only).
	Tx(addr uint16, w, r []byte) error
}

// Sample is one physical-unit reading ready to feed into an
// internal/fusion Engine handler, already converted from the driver's
// native register units and timestamped against the previous sample
// from the same stream.
type Sample struct {
	Vector linalg.Vector3
	DT     float32
}
