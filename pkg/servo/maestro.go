package servo

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"

	"go.bug.st/serial"
)

// Pololu Maestro serial commands.
const (
	maestroSetTarget = 0x84
	maestroGoHome    = 0xa2
	maestroPololu    = 0xaa
)

// maestroChannels is the largest Maestro (Mini Maestro 24).
const maestroChannels = 24

// Maestro drives hobby servos through a Pololu Maestro USB servo controller.
type Maestro struct {
	mu      sync.Mutex
	port    io.WriteCloser
	device  uint8
	compact bool
}

// OpenMaestro opens the Maestro's command port.
func OpenMaestro(port string, baud int, device uint8, compact bool) (*Maestro, error) {
	p, err := serial.Open(port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open maestro port %s: %w", port, err)
	}
	return NewMaestro(p, device, compact), nil
}

// NewMaestro wraps an already open command stream.
func NewMaestro(port io.WriteCloser, device uint8, compact bool) *Maestro {
	return &Maestro{port: port, device: device, compact: compact}
}

func (m *Maestro) preamble(cmd byte) []byte {
	if m.compact {
		return []byte{cmd}
	}
	return []byte{maestroPololu, m.device, cmd & 0x7f}
}

// maestroTarget converts an angle to a target in quarter-microseconds.
func maestroTarget(angle float64) uint16 {
	return uint16(math.Round(pulseMicros(angle) * 4))
}

// SetAngle sends a Set Target command for channel.
func (m *Maestro) SetAngle(_ context.Context, channel int, angle float64) error {
	if channel < 0 || channel >= maestroChannels {
		return fmt.Errorf("%w: %d", ErrChannelRange, channel)
	}
	target := maestroTarget(angle)
	cmd := append(m.preamble(maestroSetTarget), byte(channel), byte(target&0x7f), byte((target>>7)&0x7f))

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.port.Write(cmd); err != nil {
		return fmt.Errorf("maestro set target: %w", err)
	}
	return nil
}

// Close sends all channels to their configured home positions and closes the port.
func (m *Maestro) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, werr := m.port.Write(m.preamble(maestroGoHome))
	if err := m.port.Close(); err != nil {
		return err
	}
	return werr
}
