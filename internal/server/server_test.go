package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"statline/internal/config"
)

func TestErrorHandler_ReturnsJSON(t *testing.T) {
	srv := New(&config.Config{Env: "development", ServerAddr: ":0"})

	req := httptest.NewRequest(http.MethodGet, "/no-such-route", nil)
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("error response is not JSON: %v: %s", err, raw)
	}
	if body.Error == "" {
		t.Error("error response has no error field")
	}
}

func TestExplicitCORSOrigins(t *testing.T) {
	srv := New(&config.Config{Env: "production", ServerAddr: ":0", CORSOrigins: "https://example.com,https://app.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	// No routes registered in this test; 404 is fine, the middleware stack ran.
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
