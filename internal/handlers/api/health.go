package api

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"statline/internal/db"
)

// HealthHandler reports service and database health.
type HealthHandler struct {
	db *db.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(database *db.DB) *HealthHandler {
	return &HealthHandler{db: database}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "disconnected",
		})
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
