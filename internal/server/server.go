package server

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"statline/internal/config"
)

// Server wraps the Fiber app and configuration.
type Server struct {
	App *fiber.App
	Cfg *config.Config
}

// New creates a new server with middleware configured.
func New(cfg *config.Config) *Server {
	app := fiber.New(fiber.Config{
		AppName: "statline",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error": message,
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())

	if cfg.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Split(cfg.CORSOrigins, ","),
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
			MaxAge:       86400,
		}))
	} else {
		app.Use(cors.New())
	}

	return &Server{
		App: app,
		Cfg: cfg,
	}
}

// Start starts the server on the configured address.
func (s *Server) Start() error {
	return s.App.Listen(s.Cfg.ServerAddr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
