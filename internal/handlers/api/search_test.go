package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"statline/internal/gemini"
	"statline/internal/models"
	"statline/internal/prompt"
	"statline/internal/testutil"
)

type fakeGenerator struct {
	answer *gemini.Answer
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, p prompt.Prompt) (*gemini.Answer, error) {
	return f.answer, f.err
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("response is not JSON: %v: %s", err, raw)
	}
}

func TestSearch_MissingFields(t *testing.T) {
	handler := NewSearchHandler(nil, &fakeGenerator{})
	app := fiber.New()
	app.Post("/api/search", handler.Search)

	tests := []struct {
		name string
		body string
	}{
		{"missing query", `{"sport": "Cricket"}`},
		{"missing sport", `{"query": "Virat Kohli stats"}`},
		{"blank query", `{"query": "   ", "sport": "Cricket"}`},
		{"not json", `query=x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, "/api/search", tt.body)
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestSearch_Success(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	uid := testutil.CreateTestUser(t, database, "uid-search", "search@example.com")

	ai := &fakeGenerator{answer: &gemini.Answer{
		Text: `{"summary": "Kohli averages 57 in ODIs.", "table": {"headers": ["Format", "Average"], "rows": [["ODI", 57.8]]}}`,
	}}
	handler := NewSearchHandler(database, ai)
	app := fiber.New()
	app.Post("/api/search", handler.Search)

	resp := postJSON(t, app, "/api/search", `{"query": "Virat Kohli average", "sport": "Cricket", "uid": "uid-search"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result models.SearchResult
	decodeBody(t, resp, &result)
	if result.Summary != "Kohli averages 57 in ODIs." {
		t.Errorf("summary = %q", result.Summary)
	}
	if len(result.Table.Rows) != 1 {
		t.Errorf("table = %+v", result.Table)
	}

	history, err := database.UserHistory(context.Background(), uid, 10)
	if err != nil {
		t.Fatalf("UserHistory() error = %v", err)
	}
	if len(history) != 1 || history[0].HasError {
		t.Errorf("telemetry = %+v, want one successful row", history)
	}
}

func TestSearch_UpstreamFailure(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	handler := NewSearchHandler(database, &fakeGenerator{err: gemini.ErrUpstream})
	app := fiber.New()
	app.Post("/api/search", handler.Search)

	resp := postJSON(t, app, "/api/search", `{"query": "Messi goals", "sport": "Soccer"}`)
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error != upstreamErrorMessage {
		t.Errorf("error = %q, want the generic non-leaking message", body.Error)
	}

	recent, err := database.GetRecentQueries(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecentQueries() error = %v", err)
	}
	if len(recent) != 1 || !recent[0].HasError {
		t.Errorf("telemetry = %+v, want one failed row", recent)
	}
}

func TestSearch_SchemaFailure(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ai := &fakeGenerator{answer: &gemini.Answer{
		Text: "```json\n{\"summary\": \"fenced\"}\n```",
	}}
	handler := NewSearchHandler(database, ai)
	app := fiber.New()
	app.Post("/api/search", handler.Search)

	resp := postJSON(t, app, "/api/search", `{"query": "NBA Finals 2024", "sport": "Basketball"}`)
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 for fenced answer", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error != upstreamErrorMessage {
		t.Errorf("error = %q, schema failures must share the upstream message", body.Error)
	}

	recent, err := database.GetRecentQueries(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecentQueries() error = %v", err)
	}
	if len(recent) != 1 || !recent[0].HasError {
		t.Errorf("telemetry = %+v, want one failed row", recent)
	}
}

func TestSearch_TelemetryFailureIsSwallowed(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ai := &fakeGenerator{answer: &gemini.Answer{
		Text: `{"summary": "ok", "table": {"headers": [], "rows": []}}`,
	}}
	handler := NewSearchHandler(database, ai)
	app := fiber.New()
	app.Post("/api/search", handler.Search)

	// uid references no user, so the telemetry insert violates the foreign
	// key. The search must still succeed.
	resp := postJSON(t, app, "/api/search", `{"query": "some query", "sport": "Chess", "uid": "ghost-uid"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200 despite telemetry failure", resp.StatusCode)
	}
}
