package servo

import (
	"context"
	"fmt"
	"math"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// STS servos resolve 4096 steps per turn; 90° sits at the 2048 midpoint.
const (
	stsCenter       = 2048
	stsStepsPerHalf = 2048
)

// Feetech drives Feetech STS bus servos, one bus id per leg.
type Feetech struct {
	bus   *feetech.Bus
	group *feetech.ServoGroup
}

// OpenFeetech opens the bus and enables torque on the given ids.
func OpenFeetech(ctx context.Context, port string, baud int, ids []int) (*Feetech, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: baud,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	group := feetech.NewServoGroupByIDs(bus, ids...)
	if err := group.EnableAll(ctx); err != nil {
		bus.Close()
		return nil, fmt.Errorf("enable torque: %w", err)
	}

	return &Feetech{bus: bus, group: group}, nil
}

// feetechSteps converts an angle to a raw STS position.
func feetechSteps(angle float64) int {
	a := clamp(angle, MinAngle, MaxAngle)
	return stsCenter - stsStepsPerHalf/2 + int(math.Round(a/MaxAngle*stsStepsPerHalf))
}

// SetAngle writes a goal position to the servo with bus id channel.
func (f *Feetech) SetAngle(ctx context.Context, channel int, angle float64) error {
	if err := f.group.SetPositions(ctx, feetech.PositionMap{channel: feetechSteps(angle)}); err != nil {
		return fmt.Errorf("write position: %w", err)
	}
	return nil
}

// Close releases torque and closes the bus.
func (f *Feetech) Close() error {
	_ = f.group.DisableAll(context.Background())
	return f.bus.Close()
}
