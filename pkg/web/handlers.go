package web

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-kiki/pkg/action"
	"github.com/teslashibe/go-kiki/pkg/emotions"
	"github.com/teslashibe/go-kiki/pkg/hub"
	"github.com/teslashibe/go-kiki/pkg/robot"
	"github.com/teslashibe/go-kiki/pkg/servo"
	"github.com/teslashibe/go-kiki/pkg/settings"
)

// enqueueTimeout bounds how long a handler waits on a full queue.
const enqueueTimeout = 30 * time.Second

// ActionRequest is the body (or query) of /api/action. Cmd is the
// legacy /action parameter name and Action an alias.
type ActionRequest struct {
	Cmd    string `json:"cmd" query:"cmd"`
	Action string `json:"action" query:"action"`
	P1     int    `json:"p1" query:"p1"`
	P2     int    `json:"p2" query:"p2"`
}

func (r ActionRequest) name() string {
	if r.Cmd != "" {
		return r.Cmd
	}
	return r.Action
}

// ActionsResponse lists what the surfaces accept.
type ActionsResponse struct {
	Commands        []string `json:"commands"`
	QueuedSequences []string `json:"queued_sequences"`
	FastSequences   []string `json:"fast_sequences"`
	Kinds           []string `json:"kinds"`
	Emotions        []string `json:"emotions"`
}

// statusFor maps controller errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, robot.ErrUnknownCommand),
		errors.Is(err, robot.ErrUnknownSequence),
		errors.Is(err, robot.ErrAngleRange),
		errors.Is(err, action.ErrUnknownKind),
		errors.Is(err, action.ErrInvalidParam),
		errors.Is(err, emotions.ErrNotFound),
		errors.Is(err, servo.ErrUnknownLeg),
		errors.Is(err, settings.ErrTrimRange):
		return fiber.StatusBadRequest
	case errors.Is(err, emotions.ErrEmojiModeUnsupported):
		return fiber.StatusNotImplemented
	case errors.Is(err, action.ErrQueueFull),
		errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusTooManyRequests
	case errors.Is(err, action.ErrNotInitialized),
		errors.Is(err, action.ErrQueueClosed):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (s *Server) enqueueCtx(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), enqueueTimeout)
}

// parseAction reads an ActionRequest from the query string and, when
// present, a JSON body.
func parseAction(c *fiber.Ctx) (ActionRequest, error) {
	var req ActionRequest
	if err := c.QueryParser(&req); err != nil {
		return req, fmt.Errorf("%w: %v", action.ErrInvalidParam, err)
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return req, fmt.Errorf("%w: %v", action.ErrInvalidParam, err)
		}
	}
	if req.name() == "" {
		return req, fmt.Errorf("%w: missing action", action.ErrInvalidParam)
	}
	return req, nil
}

// ============================================================
// Status
// ============================================================

// handleLegacyStatus answers the on-robot web page check: plain "ready".
func (s *Server) handleLegacyStatus(c *fiber.Ctx) error {
	return c.SendString("ready")
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.dog.Status())
}

func (s *Server) handleListActions(c *fiber.Ctx) error {
	kinds := action.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	known := emotions.Known()
	labels := make([]string, len(known))
	for i, info := range known {
		labels[i] = string(info.Label)
	}
	return c.JSON(ActionsResponse{
		Commands:        robot.Commands(),
		QueuedSequences: robot.QueuedSequences(),
		FastSequences:   robot.FastSequences(),
		Kinds:           names,
		Emotions:        labels,
	})
}

func (s *Server) handleEvents(c *fiber.Ctx) error {
	return c.JSON(s.recentEvents())
}

// ============================================================
// Actions
// ============================================================

// handleLegacyAction is GET /action?cmd=&p1=&p2= with a plain-text reply.
func (s *Server) handleLegacyAction(c *fiber.Ctx) error {
	req, err := parseAction(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("❌ Missing action parameters")
	}

	ctx, cancel := s.enqueueCtx(c)
	defer cancel()
	if _, err := s.dog.QueueCommand(ctx, req.name(), req.P1, req.P2); err != nil {
		return c.Status(statusFor(err)).SendString("❌ " + err.Error())
	}
	return c.SendString(fmt.Sprintf("✅ executed: %s (p1: %d, p2: %d)", req.name(), req.P1, req.P2))
}

func (s *Server) handleAction(c *fiber.Ctx) error {
	req, err := parseAction(c)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := s.enqueueCtx(c)
	defer cancel()
	queued, err := s.dog.QueueCommand(ctx, req.name(), req.P1, req.P2)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"action": req.name(),
		"queued": queued,
	})
}

func (s *Server) handleStop(c *fiber.Ctx) error {
	if err := s.dog.Stop(); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"stopped": true})
}

func (s *Server) handleQueue(c *fiber.Ctx) error {
	st := s.dog.Status()
	return c.JSON(fiber.Map{
		"depth":    st.QueueDepth,
		"capacity": st.QueueCapacity,
		"current":  st.Current,
	})
}

// handleEnqueue queues a raw request: {"kind":"walk_forward","steps":3,"speed":100}.
func (s *Server) handleEnqueue(c *fiber.Ctx) error {
	var r action.Request
	if err := c.BodyParser(&r); err != nil {
		return fail(c, fmt.Errorf("%w: %v", action.ErrInvalidParam, err))
	}

	ctx, cancel := s.enqueueCtx(c)
	defer cancel()
	queued, err := s.dog.Enqueue(ctx, r)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(queued)
}

// ============================================================
// Display and touch
// ============================================================

func (s *Server) handleEmotion(c *fiber.Ctx) error {
	name := c.Query("emotion")
	if name == "" {
		return fail(c, fmt.Errorf("%w: missing emotion", emotions.ErrNotFound))
	}
	if err := s.dog.SetEmotion(name); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"emotion": name})
}

func (s *Server) handleEmojiMode(c *fiber.Ctx) error {
	mode := c.Query("mode")
	if err := s.dog.SetEmojiMode(mode); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"mode":       mode,
		"emoji_mode": emotions.ParseEmojiMode(mode),
	})
}

func (s *Server) handleTouchSensor(c *fiber.Ctx) error {
	if raw := c.Query("enabled"); raw != "" {
		s.dog.SetTouchEnabled(raw == "true" || raw == "1")
	}
	return c.JSON(fiber.Map{"enabled": s.dog.TouchEnabled()})
}

func (s *Server) handleTouch(c *fiber.Ctx) error {
	ctx, cancel := s.enqueueCtx(c)
	defer cancel()
	if err := s.dog.Touch(ctx); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"handled": s.dog.TouchEnabled()})
}

// ============================================================
// Calibration
// ============================================================

func (s *Server) handleGetTrims(c *fiber.Ctx) error {
	return c.JSON(s.dog.Trims())
}

func (s *Server) handleSetTrims(c *fiber.Ctx) error {
	var t settings.Trims
	if err := c.BodyParser(&t); err != nil {
		return fail(c, fmt.Errorf("%w: %v", action.ErrInvalidParam, err))
	}
	if err := s.dog.SetTrims(t); err != nil {
		return fail(c, err)
	}
	return c.JSON(s.dog.Trims())
}

// handleServo moves one leg: /api/servo?leg=LF&angle=45.
func (s *Server) handleServo(c *fiber.Ctx) error {
	leg, err := servo.ParseLeg(c.Query("leg"))
	if err != nil {
		return fail(c, err)
	}
	angle, err := strconv.Atoi(c.Query("angle"))
	if err != nil {
		return fail(c, fmt.Errorf("%w: angle %q", robot.ErrAngleRange, c.Query("angle")))
	}
	if err := s.dog.TestServo(c.UserContext(), leg, angle); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"leg": leg.String(), "angle": angle})
}

// ============================================================
// WebSocket
// ============================================================

// handleStatusWS sends the current status, then streams events.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	if err := c.WriteJSON(hub.NewEnvelope("status", s.dog.Status())); err != nil {
		return
	}
	client := hub.NewClient(s.statusHub, c)
	if client == nil {
		return
	}
	client.Run()
}
