// Package fuseconfig loads cmd/fusiond's YAML configuration file,
// grounded on the teacher's cmd/spectrometer/internal/config loader
// (SPEC_FULL.md §7): a thin Load wrapping gopkg.in/yaml.v3, returning
// plain wrapped errors rather than the core package's Result taxonomy.
package fuseconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is cmd/fusiond's on-disk configuration.
type Config struct {
	// Mode selects the estimator's sensor envelope: "full",
	// "game-rotation" or "geomag".
	Mode string `yaml:"mode"`

	I2CBus  string `yaml:"i2c_bus"`
	AccelHz int    `yaml:"accel_hz"`
	GyroHz  int    `yaml:"gyro_hz"`
	MagHz   int    `yaml:"mag_hz"`

	// Replay, if set, reads recorded samples from this path instead of
	// opening the I2C bus named above.
	Replay string `yaml:"replay"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration cmd/fusiond falls back to when no
// -config flag is given.
func Default() Config {
	return Config{
		Mode:     "full",
		I2CBus:   "/dev/i2c-1",
		AccelHz:  100,
		GyroHz:   100,
		MagHz:    20,
		LogLevel: "info",
	}
}

// Load reads and parses a YAML config file at path.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("fuseconfig: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("fuseconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}
