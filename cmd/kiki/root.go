package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-kiki/internal/config"
	"github.com/teslashibe/go-kiki/internal/log"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	configPath string
	logLevel   string
	driverFlag string
	portFlag   string
)

var rootCmd = &cobra.Command{
	Use:          "kiki",
	Short:        "Motion core for the Kiki quadruped",
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "kiki.yaml", "config file (missing file means defaults)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&driverFlag, "driver", "", "servo driver: sim, maestro, feetech, pwm")
	pf.StringVar(&portFlag, "port", "", "serial port for the maestro and feetech drivers")

	rootCmd.AddCommand(serveCmd, mcpCmd, trimCmd, servoCmd, teleopCmd, watchCmd, statusCmd, doCmd, stopCmd)
}

// loadConfig applies defaults < file < env < flags and validates.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("driver") {
		cfg.Servo.Driver = driverFlag
	}
	if flags.Changed("port") {
		cfg.Servo.Port = portFlag
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setup loads the config and initializes logging on stdout.
func setup(cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, err
	}
	log.Init(cfg.LogLevel)
	return cfg, nil
}
