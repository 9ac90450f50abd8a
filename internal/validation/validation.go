package validation

import (
	"strconv"
	"strings"
)

// Sports is the recommended sport set. It is advisory only: the telemetry
// store accepts any non-empty label, and unknown sports get the generic prompt
// hint downstream.
var Sports = []string{"Cricket", "Soccer", "Tennis", "F1", "Basketball", "Baseball", "Swimming", "Chess"}

// NormalizeText trims surrounding whitespace from free-text input.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}

// ParseLimit parses a limit query parameter, falling back to def when the
// value is missing or malformed and clamping to max.
func ParseLimit(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
