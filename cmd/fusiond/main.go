// Command fusiond reads accelerometer, gyroscope and (optionally)
// magnetometer samples from an MPU6050/HMC5883L pair — or from a
// recorded trace via -replay — and logs the fused orientation. A live
// run logs it once per accelerometer period; a replay logs it once,
// after the whole trace has been fed (SPEC_FULL.md §6.1).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/itohio/fusion/internal/fusion"
	"github.com/itohio/fusion/pkg/devices"
	"github.com/itohio/fusion/pkg/devices/hmc5883"
	"github.com/itohio/fusion/pkg/devices/mpu6050"
	"github.com/itohio/fusion/pkg/devices/replay"
	"github.com/itohio/fusion/pkg/fuseconfig"
	"github.com/itohio/fusion/pkg/fuselog"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (overrides the built-in defaults)")
	i2cBus := flag.String("i2c-bus", "", "I2C bus device, overrides config")
	replayPath := flag.String("replay", "", "replay a recorded CSV trace instead of a live I2C bus, overrides config")
	rate := flag.String("rate", "", "log level, overrides config")
	logless := flag.Bool("logless", false, "skip applying the configured log level; logging stays enabled unless built with the logless tag")
	flag.Parse()

	cfg := fuseconfig.Default()
	if *configPath != "" {
		loaded, err := fuseconfig.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *i2cBus != "" {
		cfg.I2CBus = *i2cBus
	}
	if *replayPath != "" {
		cfg.Replay = *replayPath
	}
	if *rate != "" {
		cfg.LogLevel = *rate
	}
	if !*logless {
		if err := fuselog.SetLevel(cfg.LogLevel); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	flags, err := modeFlags(cfg.Mode)
	if err != nil {
		fuselog.Log.Fatal().Err(err).Str("mode", cfg.Mode).Msg("unknown fusion mode")
	}
	engine := fusion.New(flags)

	if cfg.Replay != "" {
		if err := runReplay(engine, cfg.Replay); err != nil {
			fuselog.Log.Fatal().Err(err).Msg("replay failed")
		}
		return
	}

	if err := runLive(engine, cfg); err != nil {
		fuselog.Log.Fatal().Err(err).Msg("live run failed")
	}
}

func modeFlags(mode string) (fusion.Flags, error) {
	switch mode {
	case "full":
		return fusion.UseGyro | fusion.UseMag, nil
	case "game-rotation":
		return fusion.UseGyro, nil
	case "geomag":
		return fusion.UseMag, nil
	default:
		return 0, fmt.Errorf("mode must be one of full, game-rotation, geomag, got %q", mode)
	}
}

func runReplay(engine *fusion.Engine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open replay trace: %w", err)
	}
	defer f.Close()

	rec, err := replay.Load(f)
	if err != nil {
		return err
	}
	fuselog.Log.Info().Int("entries", rec.Len()).Str("path", path).Msg("replaying trace")

	for {
		entry, ok := rec.Next()
		if !ok {
			break
		}
		handleEntry(engine, entry)
	}
	report(engine)
	return nil
}

func handleEntry(engine *fusion.Engine, entry replay.Entry) {
	switch entry.Kind {
	case replay.KindAccel:
		engine.HandleAcc(entry.Sample.Vector, entry.Sample.DT)
	case replay.KindGyro:
		engine.HandleGyro(entry.Sample.Vector, entry.Sample.DT)
	case replay.KindMag:
		engine.HandleMag(entry.Sample.Vector)
	}
}

func runLive(engine *fusion.Engine, cfg fuseconfig.Config) error {
	bus, err := devices.NewI2C(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("open i2c bus %s: %w", cfg.I2CBus, err)
	}
	defer bus.Close()

	imu := mpu6050.New(bus, mpu6050.DefaultAddress)
	if err := imu.Configure(); err != nil {
		return fmt.Errorf("configure mpu6050: %w", err)
	}

	var mag *hmc5883.Device
	if engine.Mode() != fusion.ModeGameRotation {
		mag = hmc5883.New(bus, hmc5883.DefaultAddress)
		if err := mag.Configure(); err != nil {
			return fmt.Errorf("configure hmc5883: %w", err)
		}
	}

	period := time.Second / time.Duration(cfg.AccelHz)
	for range time.Tick(period) {
		if engine.Mode() != fusion.ModeGeomag {
			if s, err := imu.ReadGyro(); err == nil {
				engine.HandleGyro(s.Vector, s.DT)
			} else {
				fuselog.Log.Warn().Err(err).Msg("gyro read failed")
			}
		}
		if s, err := imu.ReadAccel(); err == nil {
			engine.HandleAcc(s.Vector, s.DT)
		} else {
			fuselog.Log.Warn().Err(err).Msg("accel read failed")
		}
		if mag != nil {
			if s, err := mag.Read(); err == nil {
				engine.HandleMag(s.Vector)
			} else {
				fuselog.Log.Warn().Err(err).Msg("mag read failed")
			}
		}
		report(engine)
	}
	return nil
}

func report(engine *fusion.Engine) {
	if !engine.HasEstimate() {
		fuselog.Log.Debug().Msg("bootstrapping")
		return
	}
	q := engine.GetAttitude()
	fuselog.Log.Info().
		Float32("roll", q.Roll()).
		Float32("pitch", q.Pitch()).
		Float32("yaw", q.Yaw()).
		Msg("attitude")
}
