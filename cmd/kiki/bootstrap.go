package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/teslashibe/go-kiki/internal/config"
	"github.com/teslashibe/go-kiki/internal/log"
	"github.com/teslashibe/go-kiki/pkg/action"
	"github.com/teslashibe/go-kiki/pkg/emotions"
	"github.com/teslashibe/go-kiki/pkg/gait"
	"github.com/teslashibe/go-kiki/pkg/robot"
	"github.com/teslashibe/go-kiki/pkg/servo"
	"github.com/teslashibe/go-kiki/pkg/settings"
)

// dog bundles the runtime pieces built from a Config.
type dog struct {
	driver servo.Driver
	engine *gait.Engine
	ctrl   *robot.Controller
	log    *slog.Logger
}

type bootstrapOptions struct {
	// noQueue builds a fast-path-only controller.
	noQueue bool
	// display overrides the log display.
	display emotions.Display
}

// bootstrap opens the servo driver and builds the controller.
func bootstrap(ctx context.Context, cfg config.Config, opts bootstrapOptions) (*dog, error) {
	logger := log.Component("kiki")

	driver, err := servo.Open(ctx, driverConfig(cfg.Servo))
	if err != nil {
		return nil, fmt.Errorf("failed to open servo driver: %w", err)
	}
	logger.Info("🦿 servo driver ready", "driver", cfg.Servo.Driver, "port", cfg.Servo.Port)

	legs := servo.NewLegs(driver, cfg.Servo.Channels.Array(), log.Component("servo"), nil)
	engine := gait.New(legs, gait.Config{Logger: log.Component("gait")})
	if cfg.Servo.LimitRate > 0 {
		engine.EnableLimiter(cfg.Servo.LimitRate)
	}

	store, err := settings.NewFileStore(cfg.TrimsPath)
	if err != nil {
		driver.Close()
		return nil, err
	}

	display := opts.display
	if display == nil {
		display = emotions.NewLogDisplay(log.Component("display"))
	}

	ctrl := robot.New(engine, display, store, controllerConfig(cfg, opts.noQueue))
	return &dog{driver: driver, engine: engine, ctrl: ctrl, log: logger}, nil
}

// Close stops the queue and releases the driver.
func (d *dog) Close() error {
	d.ctrl.Close()
	return d.driver.Close()
}

// run drives the executor until ctx ends.
func (d *dog) run(ctx context.Context) {
	if err := d.ctrl.Run(ctx); err != nil && !errors.Is(err, action.ErrNotInitialized) {
		d.log.Error("❌ executor stopped", "error", err)
	}
}

func driverConfig(c config.ServoConfig) servo.DriverConfig {
	return servo.DriverConfig{
		Kind:     c.Driver,
		Port:     c.Port,
		Baud:     c.Baud,
		Device:   c.Device,
		Compact:  c.Compact,
		Channels: c.Channels.Array(),
	}
}

func controllerConfig(cfg config.Config, noQueue bool) robot.Config {
	return robot.Config{
		Queue: action.QueueConfig{
			Capacity: cfg.Queue.Capacity,
			Policy:   action.Policy(cfg.Queue.Policy),
			Timeout:  cfg.Queue.EnqueueTimeout,
		},
		Executor: action.ExecutorConfig{
			PollInterval:     cfg.Executor.PollInterval,
			IdleThreshold:    cfg.Executor.IdleThreshold,
			IdleEmotionEvery: cfg.Executor.IdleEmotionEvery,
			SettleDelay:      cfg.Executor.SettleDelay,
			Logger:           log.Component("executor"),
		},
		DisableQueue: noQueue,
		Touch:        cfg.Touch,
		Logger:       log.Component("robot"),
	}
}
