package api

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"statline/internal/db"
	"statline/internal/gemini"
	"statline/internal/normalize"
	"statline/internal/prompt"
	"statline/internal/validation"
)

// Generator produces a raw answer for an instruction payload.
type Generator interface {
	Generate(ctx context.Context, p prompt.Prompt) (*gemini.Answer, error)
}

// upstreamErrorMessage is the single client-facing message for upstream and
// schema failures. Callers cannot act on the difference, and internal details
// must not leak.
const upstreamErrorMessage = "failed to fetch data from the knowledge service"

// SearchHandler orchestrates prompt build, knowledge-service call, and
// response normalization for one search.
type SearchHandler struct {
	db *db.DB
	ai Generator
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(database *db.DB, ai Generator) *SearchHandler {
	return &SearchHandler{db: database, ai: ai}
}

// Search handles POST /api/search. Telemetry is recorded after the outcome is
// known and is best-effort: a telemetry failure never changes the response.
func (h *SearchHandler) Search(c fiber.Ctx) error {
	var body struct {
		Query string `json:"query"`
		Sport string `json:"sport"`
		UID   string `json:"uid"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	query := validation.NormalizeText(body.Query)
	sport := validation.NormalizeText(body.Sport)
	if query == "" {
		return jsonError(c, fiber.StatusBadRequest, "query is required")
	}
	if sport == "" {
		return jsonError(c, fiber.StatusBadRequest, "sport is required")
	}

	var uid *string
	if trimmed := validation.NormalizeText(body.UID); trimmed != "" {
		uid = &trimmed
	}

	answer, err := h.ai.Generate(c.Context(), prompt.Build(sport, query))
	if err != nil {
		slog.Error("knowledge service call failed", "sport", sport, "error", err)
		h.recordQuery(c.Context(), uid, sport, query, true)
		return jsonError(c, fiber.StatusInternalServerError, upstreamErrorMessage)
	}

	result, err := normalize.Normalize(answer.Text)
	if err != nil {
		slog.Error("answer failed normalization", "sport", sport, "error", err)
		h.recordQuery(c.Context(), uid, sport, query, true)
		return jsonError(c, fiber.StatusInternalServerError, upstreamErrorMessage)
	}

	h.recordQuery(c.Context(), uid, sport, query, false)
	return c.JSON(result)
}

// recordQuery appends a telemetry row, logging and swallowing any failure.
func (h *SearchHandler) recordQuery(ctx context.Context, uid *string, sport, query string, hasError bool) {
	if err := h.db.RecordQuery(ctx, uid, sport, query, hasError); err != nil {
		slog.Error("failed to record search telemetry", "sport", sport, "error", err)
	}
}
