package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Servo driver kinds.
const (
	DriverSim     = "sim"
	DriverMaestro = "maestro"
	DriverFeetech = "feetech"
	DriverPWM     = "pwm"
)

// Queue-full policies.
const (
	PolicyBlock = "block"
	PolicyDrop  = "drop"
)

// Unattached marks a leg with no actuator behind it.
const Unattached = -1

// Config holds all configuration for the kiki daemon.
// Flag parsing is done in cmd/kiki; this struct is data only.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Servo    ServoConfig    `yaml:"servo"`
	Queue    QueueConfig    `yaml:"queue"`
	Executor ExecutorConfig `yaml:"executor"`
	HTTP     HTTPConfig     `yaml:"http"`

	// TrimsPath is the YAML file holding the four leg trims.
	TrimsPath string `yaml:"trims_path"`

	// Touch enables the touch sensor at startup.
	Touch bool `yaml:"touch"`
}

// ServoConfig selects and parameterizes the servo backend.
type ServoConfig struct {
	Driver string `yaml:"driver"` // sim, maestro, feetech, pwm
	Port   string `yaml:"port"`   // serial device for maestro/feetech
	Baud   int    `yaml:"baud"`

	// Device is the Maestro device number; Compact selects the compact protocol.
	Device  uint8 `yaml:"device"`
	Compact bool  `yaml:"compact"`

	Channels LegChannels `yaml:"channels"`

	// LimitRate caps leg speed in degrees per second. Zero disables the limiter.
	LimitRate int `yaml:"limit_rate"`
}

// LegChannels maps each leg to a driver channel, GPIO pin or bus id.
type LegChannels struct {
	LeftFront  int `yaml:"left_front"`
	RightFront int `yaml:"right_front"`
	LeftBack   int `yaml:"left_back"`
	RightBack  int `yaml:"right_back"`
}

// Array returns the channels in LF, RF, LB, RB order.
func (c LegChannels) Array() [4]int {
	return [4]int{c.LeftFront, c.RightFront, c.LeftBack, c.RightBack}
}

// QueueConfig configures the action queue.
type QueueConfig struct {
	Capacity int    `yaml:"capacity"`
	Policy   string `yaml:"policy"` // block or drop

	// EnqueueTimeout bounds a blocked producer. Zero blocks until space frees up.
	EnqueueTimeout time.Duration `yaml:"enqueue_timeout"`
}

// ExecutorConfig configures the action executor.
type ExecutorConfig struct {
	PollInterval     time.Duration `yaml:"poll_interval"`
	IdleThreshold    int           `yaml:"idle_threshold"`     // poll ticks before idle mode
	IdleEmotionEvery int           `yaml:"idle_emotion_every"` // poll ticks between idle emotions
	SettleDelay      time.Duration `yaml:"settle_delay"`
}

// HTTPConfig configures the control surface.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration of the reference board.
func Default() Config {
	return Config{
		LogLevel: "info",
		Servo: ServoConfig{
			Driver: DriverSim,
			Baud:   9600,
			Device: 12,
			Channels: LegChannels{
				LeftFront:  0,
				RightFront: 1,
				LeftBack:   2,
				RightBack:  3,
			},
		},
		Queue: QueueConfig{
			Capacity:       10,
			Policy:         PolicyBlock,
			EnqueueTimeout: 30 * time.Second,
		},
		Executor: ExecutorConfig{
			PollInterval:     time.Second,
			IdleThreshold:    120,
			IdleEmotionEvery: 10,
			SettleDelay:      20 * time.Millisecond,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		TrimsPath: DefaultTrimsPath(),
	}
}

// DefaultTrimsPath returns ~/.kiki/trims.yaml, or a relative path when home is unknown.
func DefaultTrimsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".kiki", "trims.yaml")
	}
	return filepath.Join(home, ".kiki", "trims.yaml")
}

// Load reads a YAML config file on top of the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv applies KIKI_* environment overrides.
// Call this after Load and before flag overrides.
func (c *Config) ApplyEnv() {
	c.Servo.Driver = String(EnvDriver, c.Servo.Driver)
	c.Servo.Port = String(EnvPort, c.Servo.Port)
	c.Servo.Baud = Int(EnvBaud, c.Servo.Baud)
	c.Servo.LimitRate = Int(EnvLimitRate, c.Servo.LimitRate)
	c.HTTP.Addr = String(EnvListenAddr, c.HTTP.Addr)
	c.TrimsPath = String(EnvTrimsPath, c.TrimsPath)
	c.Queue.Policy = String(EnvQueuePolicy, c.Queue.Policy)
	c.LogLevel = String(EnvLogLevel, c.LogLevel)
	c.Touch = Bool(EnvTouch, c.Touch)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Servo.Driver {
	case DriverSim, DriverPWM:
	case DriverMaestro, DriverFeetech:
		if c.Servo.Port == "" {
			return &Error{Field: "servo.port", Message: fmt.Sprintf("servo.port is required for the %s driver", c.Servo.Driver)}
		}
		if c.Servo.Baud <= 0 {
			return &Error{Field: "servo.baud", Message: "servo.baud must be positive"}
		}
	default:
		return &Error{Field: "servo.driver", Message: fmt.Sprintf("unknown servo driver %q", c.Servo.Driver)}
	}

	for i, ch := range c.Servo.Channels.Array() {
		if ch < Unattached {
			return &Error{Field: "servo.channels", Message: fmt.Sprintf("channel %d for leg %d is invalid (use -1 for unattached)", ch, i)}
		}
	}

	if c.Servo.LimitRate < 0 {
		return &Error{Field: "servo.limit_rate", Message: "servo.limit_rate must not be negative"}
	}
	if c.Queue.Capacity <= 0 {
		return &Error{Field: "queue.capacity", Message: "queue.capacity must be positive"}
	}
	if c.Queue.Policy != PolicyBlock && c.Queue.Policy != PolicyDrop {
		return &Error{Field: "queue.policy", Message: fmt.Sprintf("queue.policy must be %q or %q", PolicyBlock, PolicyDrop)}
	}
	if c.Executor.PollInterval <= 0 {
		return &Error{Field: "executor.poll_interval", Message: "executor.poll_interval must be positive"}
	}
	if c.Executor.IdleThreshold <= 0 || c.Executor.IdleEmotionEvery <= 0 {
		return &Error{Field: "executor", Message: "idle thresholds must be positive"}
	}
	return nil
}

// Error represents a configuration validation error.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
