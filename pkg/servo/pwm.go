package servo

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

// 50 Hz servo frame split into 2000 slices of 10 µs.
const (
	pwmFreq  = 50
	pwmCycle = 2000
)

// pwmPins are the Raspberry Pi GPIOs with hardware PWM.
var pwmPins = map[int]bool{12: true, 13: true, 18: true, 19: true}

// PWM drives servos straight from Raspberry Pi hardware PWM pins.
type PWM struct {
	mu   sync.Mutex
	pins map[int]rpio.Pin
}

// OpenPWM maps GPIO memory and configures each attached pin for PWM.
func OpenPWM(pins []int) (*PWM, error) {
	for _, p := range pins {
		if p != Unattached && !pwmPins[p] {
			return nil, fmt.Errorf("%w: gpio %d has no hardware pwm", ErrChannelRange, p)
		}
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}

	d := &PWM{pins: make(map[int]rpio.Pin)}
	for _, p := range pins {
		if p == Unattached {
			continue
		}
		pin := rpio.Pin(p)
		pin.Mode(rpio.Pwm)
		pin.Freq(pwmFreq * pwmCycle)
		d.pins[p] = pin
	}
	return d, nil
}

// pwmDuty converts an angle to a duty length out of pwmCycle.
func pwmDuty(angle float64) uint32 {
	return uint32(math.Round(pulseMicros(angle) / 10))
}

// SetAngle updates the duty cycle of the pin.
func (d *PWM) SetAngle(_ context.Context, channel int, angle float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	pin, ok := d.pins[channel]
	if !ok {
		return fmt.Errorf("%w: gpio %d not configured", ErrChannelRange, channel)
	}
	pin.DutyCycle(pwmDuty(angle), pwmCycle)
	return nil
}

// Close unmaps GPIO memory.
func (d *PWM) Close() error {
	return rpio.Close()
}
