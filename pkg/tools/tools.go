// Package tools exposes the dog as MCP tools: self.dog.* motions, sequences
// and maintenance, and the queued self.otto.* legacy motions.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/teslashibe/go-kiki/pkg/action"
	"github.com/teslashibe/go-kiki/pkg/emotions"
	"github.com/teslashibe/go-kiki/pkg/robot"
	"github.com/teslashibe/go-kiki/pkg/servo"
)

// Dog is the part of the controller the tools drive.
type Dog interface {
	robot.FastPath
	robot.QueuedPath
	robot.Stopper
	robot.StatusReporter
}

var _ Dog = (*robot.Controller)(nil)

// Config configures the tool set.
type Config struct {
	Dog Dog

	// Queued sends self.dog.* motions and sequences through the action
	// queue instead of running them inline.
	Queued bool

	Logger *slog.Logger
}

// motion describes a self.dog.* primitive tool.
type motion struct {
	name  string
	desc  string
	kind  action.Kind
	mood  emotions.Label
	count *intParam // nil for single-shot primitives
	speed intParam
}

func steps(def, max int) *intParam {
	return &intParam{"steps", "number of steps", def, 1, max}
}

func cycles(def, max int) *intParam {
	return &intParam{"cycles", "number of cycles", def, 1, max}
}

func speed(def, min, max int) intParam {
	return intParam{"speed", "delay per phase in ms, lower is faster", def, min, max}
}

func delay(def, min, max int) intParam {
	return intParam{"delay", "delay in ms", def, min, max}
}

var motions = []motion{
	{"walk_forward", "I walk forward on four legs.", action.KindWalk, "", steps(2, 10), speed(150, 50, 500)},
	{"walk_backward", "I walk backward on four legs.", action.KindWalkBack, "", steps(2, 10), speed(150, 50, 500)},
	{"turn_left", "I turn left on the spot.", action.KindTurnLeft, "", steps(3, 10), speed(150, 50, 500)},
	{"turn_right", "I turn right on the spot.", action.KindTurnRight, "", steps(3, 10), speed(150, 50, 500)},
	{"sit_down", "I sit down.", action.KindSit, "", nil, delay(500, 100, 2000)},
	{"lie_down", "I lie down.", action.KindLie, "", nil, delay(1000, 500, 3000)},
	{"jump", "I jump.", action.KindJump, "", nil, delay(200, 100, 1000)},
	{"bow", "I bow politely and hold it.", action.KindBow, "", nil, delay(2000, 1000, 5000)},
	{"dance", "I dance.", action.KindDance, emotions.Happy, cycles(3, 10), speed(200, 100, 500)},
	{"wave_right_foot", "I wave my right front foot.", action.KindWaveRightFoot, "",
		&intParam{"waves", "number of waves", 5, 1, 10}, speed(50, 20, 200)},
	{"dance_4_feet", "I dance with all four feet.", action.KindDance4Feet, emotions.Happy, cycles(6, 10), speed(300, 200, 800)},
	{"swing", "I swing from side to side.", action.KindSwing, emotions.Happy, cycles(8, 20), speed(6, 5, 50)},
	{"stretch", "I stretch like a sleepy dog.", action.KindStretch, emotions.Sleepy, cycles(2, 5), speed(15, 10, 50)},
	{"scratch", "I sit and scratch with my back leg.", action.KindScratch, "",
		&intParam{"scratches", "number of scratches", 5, 1, 10}, speed(50, 20, 200)},
}

// legacy describes a queued self.otto.* tool.
type legacy struct {
	name      string
	desc      string
	kind      action.Kind
	count     intParam
	period    intParam
	direction bool
}

var legacies = []legacy{
	{"walk", "Classic walk. direction 1 walks forward, -1 backward.", action.KindLegacyWalk,
		intParam{"steps", "number of steps", 4, 1, 20}, intParam{"period", "gait period in ms", 1000, 500, 2000}, true},
	{"turn", "Classic turn. direction 1 turns left, -1 right.", action.KindLegacyTurn,
		intParam{"steps", "number of steps", 4, 1, 20}, intParam{"period", "gait period in ms", 2000, 1000, 3000}, true},
	{"jump", "Classic jump.", action.KindLegacyJump,
		intParam{"steps", "number of jumps", 1, 1, 10}, intParam{"period", "gait period in ms", 2000, 1000, 3000}, false},
}

var directionParam = intParam{"direction", "direction", 1, -1, 1}

var sequenceDescriptions = map[string]string{
	"defend":    "I defend myself: back away, sit, lie low, then stand up.",
	"attack":    "I attack: charge forward, jump and bow.",
	"celebrate": "I celebrate: dance, wave and swing.",
	"greet":     "I greet you: stand, wave and bow.",
	"retreat":   "I retreat: back away, turn and walk off.",
	"search":    "I look around: turn both ways and walk on.",
}

// Tools returns every tool bound to cfg.Dog.
func Tools(cfg Config) []server.ServerTool {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	t := &toolset{dog: cfg.Dog, queued: cfg.Queued, log: cfg.Logger}

	var out []server.ServerTool
	for _, m := range motions {
		out = append(out, t.motionTool(m))
	}
	for _, l := range legacies {
		out = append(out, t.legacyTool(l))
	}

	sequences := robot.FastSequences()
	if cfg.Queued {
		sequences = robot.QueuedSequences()
	}
	for _, name := range sequences {
		out = append(out, t.sequenceTool(name))
	}

	out = append(out,
		server.ServerTool{
			Tool:    newTool("self.dog.stop", "I stop everything immediately and stand still."),
			Handler: t.handleStop,
		},
		server.ServerTool{
			Tool:    newTool("self.dog.home", "I return to my standing position."),
			Handler: t.handleHome,
		},
		server.ServerTool{
			Tool: newTool("self.dog.test_servo",
				"Move one leg to an angle and hold it, for calibration. 0=LF, 1=RF, 2=LB, 3=RB.",
				servoIDParam, angleParam),
			Handler: t.handleTestServo,
		},
		server.ServerTool{
			Tool: mcp.NewTool("self.dog.get_status",
				mcp.WithDescription("Report my queue, idle state, emotion and leg angles."),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: t.handleStatus,
		},
	)
	return out
}

var (
	servoIDParam = intParam{"servo_id", "servo index", 0, 0, 3}
	angleParam   = intParam{"angle", "angle in degrees", 90, 0, 180}
)

type toolset struct {
	dog    Dog
	queued bool
	log    *slog.Logger
}

// run sends r down the configured path.
func (t *toolset) run(ctx context.Context, r action.Request, mood emotions.Label) error {
	if !t.queued {
		return t.dog.Do(ctx, r, mood)
	}
	_, err := t.dog.Enqueue(ctx, r)
	return err
}

func (t *toolset) motionTool(m motion) server.ServerTool {
	var params []intParam
	if m.count != nil {
		params = append(params, *m.count)
	}
	params = append(params, m.speed)

	return server.ServerTool{
		Tool: newTool("self.dog."+m.name, m.desc, params...),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			n := 1
			if m.count != nil {
				v, err := m.count.read(req)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				n = v
			}
			sp, err := m.speed.read(req)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			r := action.NewRequest(m.kind, n, sp)
			t.log.Info("🐾 tool", "tool", m.name, "action", r.String(), "queued", t.queued)
			if err := t.run(ctx, r, m.mood); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(t.done(m.name, r)), nil
		},
	}
}

func (t *toolset) legacyTool(l legacy) server.ServerTool {
	params := []intParam{l.count, l.period}
	if l.direction {
		params = append(params, directionParam)
	}

	return server.ServerTool{
		Tool: newTool("self.otto."+l.name, l.desc, params...),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			n, err := l.count.read(req)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			period, err := l.period.read(req)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			r := action.NewRequest(l.kind, n, period)
			if l.direction {
				dir, err := directionParam.read(req)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				r = r.WithDirection(dir)
			}

			// Legacy motions always go through the queue.
			queued, err := t.dog.Enqueue(ctx, r)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("queued %s (%s)", queued.String(), queued.ID)), nil
		},
	}
}

func (t *toolset) sequenceTool(name string) server.ServerTool {
	desc := sequenceDescriptions[name]
	if desc == "" {
		desc = "I perform the " + name + " sequence."
	}

	return server.ServerTool{
		Tool: newTool("self.dog."+name, desc),
		Handler: func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			t.log.Info("🎬 tool sequence", "name", name, "queued", t.queued)
			if t.queued {
				reqs, err := t.dog.QueueSequence(ctx, name)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				return mcp.NewToolResultText(fmt.Sprintf("queued %s (%d requests)", name, len(reqs))), nil
			}
			if err := t.dog.RunSequence(ctx, name); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText("done " + name), nil
		},
	}
}

func (t *toolset) done(name string, r action.Request) string {
	if t.queued {
		return fmt.Sprintf("queued %s (%s)", r.String(), name)
	}
	return fmt.Sprintf("done %s", r.String())
}

func (t *toolset) handleStop(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.dog.Stop(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("stopped"), nil
}

func (t *toolset) handleHome(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.run(ctx, action.NewRequest(action.KindHome, 1, 500), ""); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("home"), nil
}

func (t *toolset) handleTestServo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := servoIDParam.read(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	angle, err := angleParam.read(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	leg := servo.Leg(id)
	if err := t.dog.TestServo(ctx, leg, angle); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s at %d°", leg, angle)), nil
}

func (t *toolset) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(t.dog.Status())
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
