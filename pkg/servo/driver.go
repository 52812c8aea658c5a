package servo

import "context"

// Driver moves a physical actuator channel to an angle in degrees [0, 180].
// Angles reaching a Driver already include trim, compensation and mirroring.
type Driver interface {
	SetAngle(ctx context.Context, channel int, angle float64) error
	Close() error
}

// pulseMicros maps an angle to a hobby-servo pulse width (500-2500 µs).
func pulseMicros(angle float64) float64 {
	return 500 + clamp(angle, MinAngle, MaxAngle)/MaxAngle*2000
}
