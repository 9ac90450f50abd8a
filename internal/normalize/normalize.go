// Package normalize parses and validates raw knowledge-service output into the
// canonical SearchResult schema. It is the boundary between an untrusted,
// free-form external response and the structured contract the rest of the
// system assumes: anything not conforming is rejected, never repaired.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"statline/internal/models"
)

// SchemaError reports which SearchResult invariant the raw answer violated.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "schema violation: " + e.Reason
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}

type rawResult struct {
	Summary         string          `json:"summary"`
	InterestingFact string          `json:"interesting_fact"`
	VideoClips      json.RawMessage `json:"video_clips"`
	Table           json.RawMessage `json:"table"`
}

type rawTable struct {
	Headers json.RawMessage `json:"headers"`
	Rows    json.RawMessage `json:"rows"`
}

type rawClip struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	VideoURL    *string `json:"video_url"`
}

// Normalize validates raw answer text against the SearchResult schema.
// The prompt contract forbids prose and code fences around the JSON object, so
// wrapped responses are rejected rather than unwrapped. Table rows whose length
// does not match the headers reject the whole response: partial tables are
// worse than no table.
func Normalize(raw string) (*models.SearchResult, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, schemaErrorf("response is empty")
	}
	if strings.HasPrefix(trimmed, "```") {
		return nil, schemaErrorf("response is wrapped in a code fence")
	}
	if !strings.HasPrefix(trimmed, "{") {
		return nil, schemaErrorf("response is not a JSON object")
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	var doc rawResult
	if err := dec.Decode(&doc); err != nil {
		return nil, schemaErrorf("response is not valid JSON: %v", err)
	}
	if dec.More() {
		return nil, schemaErrorf("response contains trailing data after the JSON object")
	}

	if strings.TrimSpace(doc.Summary) == "" {
		return nil, schemaErrorf("summary must be a non-empty string")
	}

	table, err := normalizeTable(doc.Table)
	if err != nil {
		return nil, err
	}

	clips, err := normalizeClips(doc.VideoClips)
	if err != nil {
		return nil, err
	}

	return &models.SearchResult{
		Summary:         doc.Summary,
		InterestingFact: doc.InterestingFact,
		VideoClips:      clips,
		Table:           table,
	}, nil
}

// normalizeTable validates headers and rows. An absent or null table is the
// canonical empty form.
func normalizeTable(raw json.RawMessage) (models.Table, error) {
	table := models.Table{Headers: []string{}, Rows: [][]any{}}
	if isAbsent(raw) {
		return table, nil
	}

	var rt rawTable
	if err := json.Unmarshal(raw, &rt); err != nil {
		return table, schemaErrorf("table must be an object with headers and rows")
	}

	if !isAbsent(rt.Headers) {
		if err := json.Unmarshal(rt.Headers, &table.Headers); err != nil {
			return table, schemaErrorf("table.headers must be a list of strings")
		}
	}

	if !isAbsent(rt.Rows) {
		if err := json.Unmarshal(rt.Rows, &table.Rows); err != nil {
			return table, schemaErrorf("table.rows must be a list of lists")
		}
	}

	for i, row := range table.Rows {
		if len(row) != len(table.Headers) {
			return table, schemaErrorf("table row %d has %d cells, expected %d", i, len(row), len(table.Headers))
		}
	}

	if table.Headers == nil {
		table.Headers = []string{}
	}
	if table.Rows == nil {
		table.Rows = [][]any{}
	}

	return table, nil
}

// normalizeClips validates video clips. Missing fields become empty strings
// since video data is supplementary, but a malformed list is still rejected.
func normalizeClips(raw json.RawMessage) ([]models.VideoClip, error) {
	if isAbsent(raw) {
		return []models.VideoClip{}, nil
	}

	var rawClips []rawClip
	if err := json.Unmarshal(raw, &rawClips); err != nil {
		return nil, schemaErrorf("video_clips must be a list of {title, description, video_url} objects")
	}

	clips := make([]models.VideoClip, len(rawClips))
	for i, rc := range rawClips {
		clips[i] = models.VideoClip{
			Title:       stringOrEmpty(rc.Title),
			Description: stringOrEmpty(rc.Description),
			VideoURL:    stringOrEmpty(rc.VideoURL),
		}
	}
	return clips, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
