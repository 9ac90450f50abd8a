package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"statline/internal/db"
	"statline/internal/validation"
)

// QueryHandler handles telemetry logging and analytics reads via JSON API.
type QueryHandler struct {
	db *db.DB
}

// NewQueryHandler creates a new API query handler.
func NewQueryHandler(database *db.DB) *QueryHandler {
	return &QueryHandler{db: database}
}

// Log handles POST /api/queries/log for callers that orchestrate the search
// flow client-side.
func (h *QueryHandler) Log(c fiber.Ctx) error {
	var body struct {
		UID      string `json:"uid"`
		Sport    string `json:"sport"`
		Query    string `json:"query"`
		HasError bool   `json:"hasError"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	sport := validation.NormalizeText(body.Sport)
	query := validation.NormalizeText(body.Query)
	if sport == "" || query == "" {
		return jsonError(c, fiber.StatusBadRequest, "missing required fields: sport and query")
	}

	var uid *string
	if trimmed := validation.NormalizeText(body.UID); trimmed != "" {
		uid = &trimmed
	}

	if err := h.db.RecordQuery(c.Context(), uid, sport, query, body.HasError); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to log query")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Query logged",
	})
}

// Popular handles GET /api/queries/popular with optional sport and limit
// query parameters.
func (h *QueryHandler) Popular(c fiber.Ctx) error {
	sport := validation.NormalizeText(c.Query("sport"))
	limit := validation.ParseLimit(c.Query("limit"), 10, 100)

	queries, err := h.db.PopularQueries(c.Context(), sport, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch popular queries")
	}

	return c.JSON(fiber.Map{
		"total":   len(queries),
		"queries": queries,
	})
}

// History handles GET /api/queries/history/:uid.
func (h *QueryHandler) History(c fiber.Ctx) error {
	uid := validation.NormalizeText(c.Params("uid"))
	if uid == "" {
		return jsonError(c, fiber.StatusBadRequest, "missing uid")
	}
	limit := validation.ParseLimit(c.Query("limit"), 20, 100)

	history, err := h.db.UserHistory(c.Context(), uid, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch history")
	}

	return c.JSON(fiber.Map{
		"total":   len(history),
		"history": history,
	})
}

// Analytics handles GET /api/queries/analytics.
func (h *QueryHandler) Analytics(c fiber.Ctx) error {
	ctx := c.Context()

	bySport, err := h.db.SportBreakdown(ctx)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch analytics")
	}

	recent, err := h.db.GetRecentQueries(ctx, 20)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch analytics")
	}

	active, err := h.db.ActiveUsers(ctx, 10)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch analytics")
	}

	overTime, err := h.db.ActivityOverTime(ctx, 30)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch analytics")
	}

	return c.JSON(fiber.Map{
		"queriesBySport":  bySport,
		"recentQueries":   recent,
		"activeUsers":     active,
		"queriesOverTime": overTime,
	})
}
