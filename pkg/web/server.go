// Package web serves the HTTP control surface: queued web actions, stop,
// display and touch controls, calibration and a live status websocket.
package web

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-kiki/pkg/hub"
	"github.com/teslashibe/go-kiki/pkg/robot"
)

// maxEvents bounds the recent-event buffer served by /api/events.
const maxEvents = 200

// Config configures the server.
type Config struct {
	Addr   string
	Logger *slog.Logger
}

// Server is the HTTP control surface.
type Server struct {
	app  *fiber.App
	addr string
	log  *slog.Logger
	dog  robot.Kiki

	statusHub *hub.Hub

	events   []robot.Event
	eventsMu sync.RWMutex
}

// NewServer creates the server and subscribes it to dog events.
func NewServer(dog robot.Kiki, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	s := &Server{
		addr:      cfg.Addr,
		log:       cfg.Logger,
		dog:       dog,
		statusHub: hub.New("status", cfg.Logger),
		events:    make([]robot.Event, 0, maxEvents),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Kiki",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Firmware-compatible routes.
	app.Get("/action", s.handleLegacyAction)
	app.Get("/status", s.handleLegacyStatus)
	app.Get("/emotion", s.handleEmotion)
	app.Get("/emoji_mode", s.handleEmojiMode)
	app.Get("/touch_sensor", s.handleTouchSensor)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/actions", s.handleListActions)
	api.All("/action", s.handleAction)
	api.Post("/stop", s.handleStop)
	api.Get("/queue", s.handleQueue)
	api.Post("/queue", s.handleEnqueue)
	api.All("/emotion", s.handleEmotion)
	api.All("/emoji_mode", s.handleEmojiMode)
	api.All("/touch_sensor", s.handleTouchSensor)
	api.Post("/touch", s.handleTouch)
	api.Get("/trims", s.handleGetTrims)
	api.Put("/trims", s.handleSetTrims)
	api.Post("/servo", s.handleServo)
	api.Get("/events", s.handleEvents)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	dog.Subscribe(s.onEvent)
	return s
}

// App returns the fiber app, for tests and embedding.
func (s *Server) App() *fiber.App {
	return s.app
}

// StatusHub returns the hub that carries live events.
func (s *Server) StatusHub() *hub.Hub {
	return s.statusHub
}

// Start runs the hub and listens until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("🌐 control surface", "addr", s.addr)
	go s.statusHub.Run(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- s.app.Listen(s.addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

// onEvent buffers an event and forwards it to websocket clients.
func (s *Server) onEvent(ev robot.Event) {
	s.eventsMu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > maxEvents {
		s.events = s.events[1:]
	}
	s.eventsMu.Unlock()

	if err := s.statusHub.Publish(ev.Type, ev); err != nil {
		s.log.Warn("⚠️ failed to publish event", "type", ev.Type, "error", err)
	}
}

// recentEvents returns a copy of the buffered events.
func (s *Server) recentEvents() []robot.Event {
	s.eventsMu.RLock()
	defer s.eventsMu.RUnlock()
	return append([]robot.Event(nil), s.events...)
}
