// Package gemini calls the Google generative-language API with search
// grounding enabled and extracts the answer text plus grounding metadata.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"statline/internal/prompt"
)

// ErrUpstream is returned for any transport failure or non-success status from
// the knowledge service. Callers must not expose its details to clients.
var ErrUpstream = errors.New("knowledge service request failed")

// Answer is the raw model output plus optional grounding metadata.
type Answer struct {
	Text      string
	Grounding *Grounding
}

// Grounding is citation-style side data about how the answer was produced.
type Grounding struct {
	WebSearchQueries []string
	SourceURLs       []string
}

// Client issues generateContent calls against one model endpoint.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	maxRetries int
	httpClient *http.Client
}

// New creates a Gemini client. timeout bounds each attempt; maxRetries is the
// number of additional attempts after a transient failure (transport errors
// and 5xx responses only).
func New(baseURL, model, apiKey string, timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		apiKey:     apiKey,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string {
	return c.model
}

type generateRequest struct {
	SystemInstruction content   `json:"systemInstruction"`
	Contents          []content `json:"contents"`
	Tools             []tool    `json:"tools"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		GroundingMetadata *struct {
			WebSearchQueries []string `json:"webSearchQueries"`
			GroundingChunks  []struct {
				Web struct {
					URI string `json:"uri"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// Generate sends one instruction payload and returns the raw answer text.
// Grounding sources, when present, are logged for observability but never
// persisted.
func (c *Client) Generate(ctx context.Context, p prompt.Prompt) (*Answer, error) {
	payload := generateRequest{
		SystemInstruction: content{Parts: []part{{Text: p.System}}},
		Contents:          []content{{Parts: []part{{Text: p.User}}}},
		Tools:             []tool{{}},
	}

	body, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty candidates", ErrUpstream)
	}

	answer := &Answer{Text: resp.Candidates[0].Content.Parts[0].Text}

	if gm := resp.Candidates[0].GroundingMetadata; gm != nil {
		grounding := &Grounding{WebSearchQueries: gm.WebSearchQueries}
		for _, chunk := range gm.GroundingChunks {
			if chunk.Web.URI != "" {
				grounding.SourceURLs = append(grounding.SourceURLs, chunk.Web.URI)
			}
		}
		answer.Grounding = grounding
		slog.Info("search grounding used",
			"queries", grounding.WebSearchQueries,
			"sources", len(grounding.SourceURLs))
	} else {
		slog.Info("response generated from model knowledge, no search performed")
	}

	return answer, nil
}

// post sends the payload, retrying transient failures with linear backoff.
func (c *Client) post(ctx context.Context, payload generateRequest) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrUpstream, ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrUpstream, err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			// Client errors are not transient; retrying cannot help.
			return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
		}
		if readErr != nil {
			lastErr = fmt.Errorf("%w: read response: %v", ErrUpstream, readErr)
			continue
		}

		return body, nil
	}

	return nil, lastErr
}
