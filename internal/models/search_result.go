package models

// SearchResult is the canonical shape of a normalized knowledge-service answer.
// It is built per-request and never persisted.
type SearchResult struct {
	Summary         string      `json:"summary"`
	InterestingFact string      `json:"interesting_fact,omitempty"`
	VideoClips      []VideoClip `json:"video_clips"`
	Table           Table       `json:"table"`
}

// VideoClip is a citation-style pointer to supplementary video material.
type VideoClip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
}

// Table holds tabular statistics. Every row has exactly len(Headers) cells.
// The empty form {headers: [], rows: []} means "no data found" and is not an error.
type Table struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
}

// IsEmpty reports whether the table is the canonical empty form.
func (t Table) IsEmpty() bool {
	return len(t.Headers) == 0 && len(t.Rows) == 0
}
