package servo

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Driver kinds accepted by Open.
const (
	DriverSim     = "sim"
	DriverMaestro = "maestro"
	DriverFeetech = "feetech"
	DriverPWM     = "pwm"
)

// DriverConfig selects a backend.
type DriverConfig struct {
	Kind     string
	Port     string
	Baud     int
	Device   uint8
	Compact  bool
	Channels [Count]int
}

// Open creates the driver named by cfg.Kind.
func Open(ctx context.Context, cfg DriverConfig) (Driver, error) {
	attached := make([]int, 0, Count)
	for _, ch := range cfg.Channels {
		if ch != Unattached {
			attached = append(attached, ch)
		}
	}

	switch cfg.Kind {
	case DriverSim, "":
		return NewRecorder(), nil
	case DriverMaestro:
		return OpenMaestro(cfg.Port, cfg.Baud, cfg.Device, cfg.Compact)
	case DriverFeetech:
		return OpenFeetech(ctx, cfg.Port, cfg.Baud, attached)
	case DriverPWM:
		return OpenPWM(attached)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Kind)
	}
}

// NewLegs creates and attaches the four leg servos on driver.
func NewLegs(driver Driver, channels [Count]int, logger *slog.Logger, now func() time.Time) [Count]*LegServo {
	var legs [Count]*LegServo
	for _, leg := range Legs() {
		s := New(leg, driver, WithLogger(logger), WithNow(now))
		ch := channels[leg]
		if ch == Unattached {
			logger.Warn("⚠️ leg has no actuator", "leg", leg.String())
		} else {
			logger.Debug("attaching leg", "leg", leg.String(), "channel", ch)
		}
		s.Attach(ch)
		legs[leg] = s
	}
	return legs
}
