// Package server exposes a Game over HTTP and streams its state to
// websocket clients.
package server

import (
	"context"
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/SeamusWaldron/cubr/internal/game"
	"github.com/SeamusWaldron/cubr/internal/log"
	"github.com/SeamusWaldron/cubr/internal/storage"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithStates enables the saved state endpoints.
func WithStates(repo *storage.StateRepository) Option {
	return func(s *Server) {
		s.states = repo
	}
}

// WithAccessLog turns on per-request logging.
func WithAccessLog() Option {
	return func(s *Server) {
		s.accessLog = true
	}
}

// Server is the cubr HTTP API.
type Server struct {
	app       *fiber.App
	game      *game.Game
	states    *storage.StateRepository
	logger    log.Logger
	accessLog bool
	hub       *hub
}

// New builds the API around g. The server takes over the engine tick hook
// to push state changes to websocket clients.
func New(g *game.Game, opts ...Option) *Server {
	s := &Server{
		game:   g,
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = newHub(s.logger)

	s.app = fiber.New(fiber.Config{
		AppName:               "cubr",
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: true,
	})
	if s.accessLog {
		s.app.Use(logger.New())
	}
	s.app.Use(recover.New())
	s.routes()

	g.Engine().SetTickHook(s.publish)
	return s
}

// App returns the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Infof("listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server and closes every websocket client.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.close()
	return s.app.ShutdownWithContext(ctx)
}

// publish sends the current view to websocket clients when it changed.
func (s *Server) publish() {
	if s.hub.empty() {
		return
	}
	s.hub.broadcast(s.game.View())
}

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api := s.app.Group("/api")
	api.Get("/state", s.handleGetState)
	api.Put("/state", s.handleSetState)
	api.Get("/faces", s.handleFaces)
	api.Get("/meshes", s.handleMeshes)
	api.Get("/cubelets", s.handleCubelets)
	api.Post("/moves", s.handleMoves)
	api.Post("/shuffle", s.handleShuffle)
	api.Post("/reset", s.handleReset)
	api.Post("/solve", s.handleSolve)
	api.Post("/solution/next", s.handleNext)
	api.Post("/solution/prev", s.handlePrev)
	api.Post("/pause", s.handlePause)
	api.Post("/speed/:dir", s.handleSpeed)

	if s.states != nil {
		states := api.Group("/states")
		states.Get("/", s.handleListStates)
		states.Post("/", s.handleSaveState)
		states.Get("/:name", s.handleGetSavedState)
		states.Post("/:name/load", s.handleLoadState)
		states.Delete("/:name", s.handleDeleteState)
	}

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handleWebSocket))
}

// customErrorHandler renders every error as {"error": "..."}.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
