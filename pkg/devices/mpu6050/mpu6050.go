// Package mpu6050 drives the MPU6050 6-axis accelerometer/gyroscope,
// adapted from the teacher's x/devices/mpu6050 register map to return
// physical-unit devices.Sample values (m/s^2, rad/s) ready for
// internal/fusion instead of raw register counts.
//
// Datasheet: https://www.invensense.com/wp-content/uploads/2015/02/MPU-6000-Datasheet1.pdf
package mpu6050

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/fusion/pkg/devices"
	"github.com/itohio/fusion/pkg/linalg"
)

// DefaultAddress is the default I2C address for the MPU6050.
const DefaultAddress = 0x68

// Register addresses.
const (
	smplrtDiv   = 0x19
	config      = 0x1A
	gyroConfig  = 0x1B
	accelConfig = 0x1C
	accelXOutH  = 0x3B
	gyroXOutH   = 0x43
	pwrMgmt1    = 0x6B
	whoAmI      = 0x75
)

const whoAmIValue = 0x68

// Full-scale ranges selected by Configure: +-2g for the accelerometer
// and +-250 deg/s for the gyroscope, matching the teacher driver's
// reset defaults.
const (
	accelLSBPerG      = 16384.0
	gyroLSBPerDegPerS = 131.0
	g                 = 9.80665
	degToRad          = math32.Pi / 180
)

// Device wraps an I2C connection to an MPU6050.
type Device struct {
	bus     devices.I2C
	address uint8

	lastAccel time.Time
	lastGyro  time.Time
}

// New creates a new MPU6050 connection. The bus must already be
// configured.
func New(bus devices.I2C, address uint8) *Device {
	if address == 0 {
		address = DefaultAddress
	}
	return &Device{bus: bus, address: address}
}

// Configure wakes the device and selects its sample rate and full
// scale ranges.
func (d *Device) Configure() error {
	if err := d.write8(pwrMgmt1, 0x00); err != nil {
		return err
	}
	if err := d.write8(smplrtDiv, 7); err != nil { // 1kHz / (1+7) = 125Hz
		return err
	}
	if err := d.write8(accelConfig, 0x00); err != nil { // +-2g
		return err
	}
	if err := d.write8(gyroConfig, 0x00); err != nil { // +-250 deg/s
		return err
	}
	return d.write8(config, 0x06) // DLPF
}

// Connected reports whether the WhoAmI register reads back as
// expected.
func (d *Device) Connected() bool {
	v, err := d.read8(whoAmI)
	return err == nil && v == whoAmIValue
}

// ReadAccel reads the accelerometer and converts it to a
// devices.Sample in m/s^2, body frame, with DT measured against the
// previous ReadAccel call.
func (d *Device) ReadAccel() (devices.Sample, error) {
	raw, err := d.readTriplet(accelXOutH)
	if err != nil {
		return devices.Sample{}, err
	}
	now := time.Now()
	dt := sampleDT(&d.lastAccel, now)
	scale := g / accelLSBPerG
	return devices.Sample{
		Vector: linalg.NewVector3(raw[0]*scale, raw[1]*scale, raw[2]*scale),
		DT:     dt,
	}, nil
}

// ReadGyro reads the gyroscope and converts it to a devices.Sample in
// rad/s, body frame, with DT measured against the previous ReadGyro
// call.
func (d *Device) ReadGyro() (devices.Sample, error) {
	raw, err := d.readTriplet(gyroXOutH)
	if err != nil {
		return devices.Sample{}, err
	}
	now := time.Now()
	dt := sampleDT(&d.lastGyro, now)
	scale := degToRad / gyroLSBPerDegPerS
	return devices.Sample{
		Vector: linalg.NewVector3(raw[0]*scale, raw[1]*scale, raw[2]*scale),
		DT:     dt,
	}, nil
}

func sampleDT(last *time.Time, now time.Time) float32 {
	var dt float32
	if !last.IsZero() {
		dt = float32(now.Sub(*last).Seconds())
	}
	*last = now
	return dt
}

func (d *Device) readTriplet(reg uint8) ([3]float32, error) {
	data := make([]byte, 6)
	if err := d.bus.Tx(uint16(d.address), []byte{reg}, data); err != nil {
		return [3]float32{}, err
	}
	return [3]float32{
		float32(int16(data[0])<<8 | int16(data[1])),
		float32(int16(data[2])<<8 | int16(data[3])),
		float32(int16(data[4])<<8 | int16(data[5])),
	}, nil
}

func (d *Device) write8(reg, value uint8) error {
	return d.bus.Tx(uint16(d.address), []byte{reg, value}, nil)
}

func (d *Device) read8(reg uint8) (uint8, error) {
	data := make([]byte, 1)
	err := d.bus.Tx(uint16(d.address), []byte{reg}, data)
	return data[0], err
}
