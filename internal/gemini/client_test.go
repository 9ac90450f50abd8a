package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"statline/internal/prompt"
)

const answerBody = `{
	"candidates": [{
		"content": {"parts": [{"text": "{\"summary\": \"ok\"}"}]},
		"groundingMetadata": {
			"webSearchQueries": ["kohli odi average"],
			"groundingChunks": [
				{"web": {"uri": "https://example.com/stats"}},
				{"web": {"uri": ""}}
			]
		}
	}]
}`

func testPrompt() prompt.Prompt {
	return prompt.Build("Cricket", "Virat Kohli stats")
}

func TestGenerate_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody []byte

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(answerBody))
	}))
	defer ts.Close()

	client := New(ts.URL, "gemini-test", "secret-key", 5*time.Second, 0)

	answer, err := client.Generate(context.Background(), testPrompt())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if answer.Text != `{"summary": "ok"}` {
		t.Errorf("Generate() text = %q", answer.Text)
	}
	if answer.Grounding == nil {
		t.Fatal("Generate() dropped grounding metadata")
	}
	if len(answer.Grounding.WebSearchQueries) != 1 {
		t.Errorf("Generate() web search queries = %v", answer.Grounding.WebSearchQueries)
	}
	if len(answer.Grounding.SourceURLs) != 1 || answer.Grounding.SourceURLs[0] != "https://example.com/stats" {
		t.Errorf("Generate() source urls = %v, want empty URIs skipped", answer.Grounding.SourceURLs)
	}

	if gotPath != "/v1beta/models/gemini-test:generateContent" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKey != "secret-key" {
		t.Errorf("request key = %q", gotKey)
	}

	var payload map[string]any
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	tools, ok := payload["tools"].([]any)
	if !ok || len(tools) != 1 {
		t.Fatalf("request tools = %v, want the google_search tool", payload["tools"])
	}
	if _, ok := tools[0].(map[string]any)["google_search"]; !ok {
		t.Error("request is missing the google_search grounding tool")
	}
	if !strings.Contains(string(gotBody), "systemInstruction") {
		t.Error("request is missing the system instruction block")
	}
}

func TestGenerate_NoGrounding(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "{}"}]}}]}`))
	}))
	defer ts.Close()

	client := New(ts.URL, "gemini-test", "k", 5*time.Second, 0)

	answer, err := client.Generate(context.Background(), testPrompt())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if answer.Grounding != nil {
		t.Errorf("Generate() grounding = %+v, want nil", answer.Grounding)
	}
}

func TestGenerate_UpstreamStatusError(t *testing.T) {
	var attempts atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	client := New(ts.URL, "gemini-test", "k", 5*time.Second, 2)

	_, err := client.Generate(context.Background(), testPrompt())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("Generate() error = %v, want ErrUpstream", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("Generate() attempts = %d, want 1 (4xx is not transient)", got)
	}
}

func TestGenerate_RetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "ok"}]}}]}`))
	}))
	defer ts.Close()

	client := New(ts.URL, "gemini-test", "k", 5*time.Second, 2)

	answer, err := client.Generate(context.Background(), testPrompt())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if answer.Text != "ok" {
		t.Errorf("Generate() text = %q", answer.Text)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("Generate() attempts = %d, want 3", got)
	}
}

func TestGenerate_ExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := New(ts.URL, "gemini-test", "k", 5*time.Second, 1)

	_, err := client.Generate(context.Background(), testPrompt())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("Generate() error = %v, want ErrUpstream", err)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("Generate() attempts = %d, want 2", got)
	}
}

func TestGenerate_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused from here on

	client := New(ts.URL, "gemini-test", "k", time.Second, 0)

	_, err := client.Generate(context.Background(), testPrompt())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("Generate() error = %v, want ErrUpstream", err)
	}
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer ts.Close()

	client := New(ts.URL, "gemini-test", "k", 5*time.Second, 0)

	_, err := client.Generate(context.Background(), testPrompt())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("Generate() error = %v, want ErrUpstream", err)
	}
}
