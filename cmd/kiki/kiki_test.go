package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/teslashibe/go-kiki/internal/config"
	"github.com/teslashibe/go-kiki/pkg/action"
	"github.com/teslashibe/go-kiki/pkg/emotions"
	"github.com/teslashibe/go-kiki/pkg/servo"
	"github.com/teslashibe/go-kiki/pkg/settings"
)

func TestApplyTrimArgs(t *testing.T) {
	got, err := applyTrimArgs(settings.Trims{LeftBack: 1}, []string{"LF=3", "rb=-2"})
	if err != nil {
		t.Fatalf("applyTrimArgs: %v", err)
	}
	want := settings.Trims{LeftFront: 3, LeftBack: 1, RightBack: -2}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	for _, args := range [][]string{{"LF"}, {"XX=1"}, {"LF=abc"}, {"LF=500"}} {
		if _, err := applyTrimArgs(settings.Trims{}, args); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestControllerConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Queue.Policy = config.PolicyDrop
	cfg.Touch = true

	rc := controllerConfig(cfg, false)
	if rc.Queue.Capacity != 10 || rc.Queue.Policy != action.PolicyDrop || rc.Queue.Timeout != 30*time.Second {
		t.Errorf("queue: %+v", rc.Queue)
	}
	if rc.Executor.PollInterval != time.Second || rc.Executor.IdleThreshold != 120 || rc.Executor.IdleEmotionEvery != 10 {
		t.Errorf("executor: %+v", rc.Executor)
	}
	if !rc.Touch || rc.DisableQueue {
		t.Errorf("flags: %+v", rc)
	}
}

func TestBootstrap_Sim(t *testing.T) {
	cfg := config.Default()
	cfg.TrimsPath = filepath.Join(t.TempDir(), "trims.yaml")

	d, err := bootstrap(context.Background(), cfg, bootstrapOptions{display: emotions.NewRecorder()})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer d.Close()

	if _, ok := d.driver.(*servo.Recorder); !ok {
		t.Errorf("driver: got %T, want *servo.Recorder", d.driver)
	}
	if st := d.ctrl.Status(); !st.Ready || st.QueueDepth != 1 {
		t.Errorf("status: %+v", st)
	}
}

func TestBootstrap_BadDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Servo.Driver = "smoke-signals"

	_, err := bootstrap(context.Background(), cfg, bootstrapOptions{})
	if !errors.Is(err, servo.ErrUnknownDriver) {
		t.Errorf("got %v, want ErrUnknownDriver", err)
	}
}

func TestFormatEnvelope(t *testing.T) {
	line := formatEnvelope([]byte(`{"type":"action_started","data":{"id":"x"},"time":"2026-01-02T03:04:05Z"}`))
	if !strings.Contains(line, "action_started") || !strings.Contains(line, `{"id":"x"}`) {
		t.Errorf("line: %q", line)
	}
	if got := formatEnvelope([]byte("plain")); got != "plain" {
		t.Errorf("plain: %q", got)
	}
}

func TestTeleopKeys(t *testing.T) {
	for key, k := range teleopKeys {
		if err := k.req().Validate(); err != nil {
			t.Errorf("key %q: %v", key, err)
		}
	}
}
