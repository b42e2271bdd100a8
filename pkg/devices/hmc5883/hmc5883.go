// Package hmc5883 drives the HMC5883L 3-axis magnetometer, following
// the teacher's device-driver register-map pattern (see
// pkg/devices/mpu6050) and returning devices.Sample values in
// microtesla, the unit internal/fusion's magnetometer handler expects.
package hmc5883

import (
	"github.com/itohio/fusion/pkg/devices"
	"github.com/itohio/fusion/pkg/linalg"
)

// DefaultAddress is the HMC5883L's fixed I2C address.
const DefaultAddress = 0x1E

const (
	regConfigA = 0x00
	regConfigB = 0x01
	regMode    = 0x02
	regDataX   = 0x03
)

// gainLSBPerGauss is the counts-per-gauss figure for the default +-1.3
// gauss range (configB = 0x20).
const gainLSBPerGauss = 1090.0

// gaussToMicrotesla converts gauss to microtesla.
const gaussToMicrotesla = 100.0

// Device wraps an I2C connection to an HMC5883L.
type Device struct {
	bus     devices.I2C
	address uint8
}

// New creates a new HMC5883L connection. The bus must already be
// configured.
func New(bus devices.I2C, address uint8) *Device {
	if address == 0 {
		address = DefaultAddress
	}
	return &Device{bus: bus, address: address}
}

// Configure selects 15Hz continuous-measurement mode at the default
// gain.
func (d *Device) Configure() error {
	if err := d.write8(regConfigA, 0x70); err != nil { // 8-sample avg, 15Hz
		return err
	}
	if err := d.write8(regConfigB, 0x20); err != nil { // +-1.3 gauss
		return err
	}
	return d.write8(regMode, 0x00) // continuous
}

// Read reads the magnetic field and converts it to a devices.Sample in
// microtesla, body frame. The HMC5883L has no internal sample-rate
// divider exposed over the wire, so DT is always zero: callers must
// time their own poll loop (SPEC_FULL.md §4.9).
func (d *Device) Read() (devices.Sample, error) {
	data := make([]byte, 6)
	// Register order is X, Z, Y.
	if err := d.bus.Tx(uint16(d.address), []byte{regDataX}, data); err != nil {
		return devices.Sample{}, err
	}
	x := float32(int16(data[0])<<8 | int16(data[1]))
	z := float32(int16(data[2])<<8 | int16(data[3]))
	y := float32(int16(data[4])<<8 | int16(data[5]))

	scale := float32(gaussToMicrotesla / gainLSBPerGauss)
	return devices.Sample{
		Vector: linalg.NewVector3(x*scale, y*scale, z*scale),
	}, nil
}

func (d *Device) write8(reg, value uint8) error {
	return d.bus.Tx(uint16(d.address), []byte{reg, value}, nil)
}
