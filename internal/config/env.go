// Package config provides configuration loading for go-kiki commands.
package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvDriver      = "KIKI_SERVO_DRIVER"
	EnvPort        = "KIKI_SERVO_PORT"
	EnvBaud        = "KIKI_SERVO_BAUD"
	EnvLimitRate   = "KIKI_SERVO_LIMIT"
	EnvListenAddr  = "KIKI_HTTP_ADDR"
	EnvTrimsPath   = "KIKI_TRIMS_PATH"
	EnvQueuePolicy = "KIKI_QUEUE_POLICY"
	EnvLogLevel    = "KIKI_LOG_LEVEL"
	EnvTouch       = "KIKI_TOUCH"
)

// String returns the value of key, or def when unset.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Int returns the integer value of key, or def when unset or malformed.
func Int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Bool returns the boolean value of key, or def when unset or malformed.
func Bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Duration returns the duration value of key, or def when unset or malformed.
func Duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
