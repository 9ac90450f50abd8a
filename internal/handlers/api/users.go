package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"statline/internal/db"
	"statline/internal/validation"
)

// UserHandler handles identity and user-analytics operations via JSON API.
type UserHandler struct {
	db *db.DB
}

// NewUserHandler creates a new API user handler.
func NewUserHandler(database *db.DB) *UserHandler {
	return &UserHandler{db: database}
}

// Login handles POST /api/users/login. The identity provider has already
// authenticated the user; this endpoint only records the sighting. Returns 201
// for a first sighting and 200 for a repeat login.
func (h *UserHandler) Login(c fiber.Ctx) error {
	var body struct {
		UID         string `json:"uid"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoURL"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	uid := validation.NormalizeText(body.UID)
	email := validation.NormalizeText(body.Email)
	if uid == "" || email == "" {
		return jsonError(c, fiber.StatusBadRequest, "missing required fields: uid and email")
	}

	result, err := h.db.UpsertLogin(c.Context(), uid, email, body.DisplayName, body.PhotoURL)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to log user")
	}

	status := fiber.StatusOK
	message := "User login logged"
	if result.IsNewUser {
		status = fiber.StatusCreated
		message = "New user created"
	}

	return c.Status(status).JSON(fiber.Map{
		"message":    message,
		"isNewUser":  result.IsNewUser,
		"loginCount": result.LoginCount,
	})
}

// List handles GET /api/users.
func (h *UserHandler) List(c fiber.Ctx) error {
	users, err := h.db.GetAllUsers(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch users")
	}

	return c.JSON(fiber.Map{
		"total": len(users),
		"users": users,
	})
}

// Stats handles GET /api/users/stats.
func (h *UserHandler) Stats(c fiber.Ctx) error {
	stats, err := h.db.GetUserStats(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch stats")
	}

	return c.JSON(stats)
}
