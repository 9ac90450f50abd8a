// Package prompt builds the instruction payload sent to the knowledge service.
// Building a prompt is a pure function of (sport, query): no I/O, no randomness.
package prompt

import (
	"fmt"
	"strings"
)

// Prompt is the two-part instruction payload for one search.
type Prompt struct {
	System string
	User   string
}

// sportMetrics maps a sport to the statistical metrics the service should
// prioritize. Sports outside this set get the generic fallback hint.
var sportMetrics = map[string]string{
	"Cricket":    "batting average, strike rate, centuries, half-centuries, wickets, economy rate, bowling average, ODI/Test/T20 stats",
	"Soccer":     "goals, assists, appearances, clean sheets, pass completion %, tackle success %, trophies won",
	"Tennis":     "Grand Slam titles, ATP/WTA ranking, match wins, tournament titles, win-loss records, head-to-head stats",
	"F1":         "race wins, pole positions, podium finishes, championship titles, fastest laps, constructor standings",
	"Basketball": "points per game, rebounds, assists, field goal %, 3-point %, championships, All-Star selections",
	"Baseball":   "batting average (AVG), home runs (HR), RBIs, on-base percentage (OBP), slugging (SLG), OPS, ERA, WHIP for pitchers, season splits",
	"Swimming":   "world records (WR), Olympic records (OR), event times, stroke category (freestyle/backstroke/butterfly/breaststroke/medley), splits, heat/semi-final/final results",
	"Chess":      "Elo rating, FIDE rating, tournament wins, opening repertoire, notable games, world championship results, head-to-head records",
}

const fallbackMetrics = "relevant performance metrics and statistics"

// MetricsHint returns the metric guidance for a sport, falling back to the
// generic hint for unknown sports.
func MetricsHint(sport string) string {
	if hint, ok := sportMetrics[sport]; ok {
		return hint
	}
	return fallbackMetrics
}

// Build constructs the instruction payload for one search. The system block
// pins the response contract: a single raw JSON object in the SearchResult
// shape, a disclaimer in summary when data is best-effort, the canonical empty
// table for "no data", and externally verifiable video citations.
func Build(sport, query string) Prompt {
	return Prompt{
		System: buildSystem(sport),
		User:   fmt.Sprintf("Analyze the following query for the sport: %q. The user's query is: %q", sport, strings.TrimSpace(query)),
	}
}

func buildSystem(sport string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an elite sports statistics analyst with deep knowledge of %s. Your expertise includes:
- Historical records and career statistics
- Tournament and championship data
- Team standings and performance metrics
- Head-to-head comparisons
- Recent and historical trends

SPORT-SPECIFIC METRICS FOR %s:
When providing statistics for %s, prioritize these metrics: %s

`, sport, strings.ToUpper(sport), sport, MetricsHint(sport))

	b.WriteString(`CRITICAL INSTRUCTIONS:
1. You MUST respond with ONLY a valid JSON object - no other text, explanations, or markdown
2. Do NOT use markdown code blocks - output raw JSON only
3. Provide accurate, well-researched statistics when available
4. If exact data isn't available, provide approximate or contextual information with an explicit disclaimer in the summary
5. For current season queries, provide the most recent available data

JSON STRUCTURE:
{
  "summary": "A clear, informative 1-2 sentence summary with context and key insights",
  "interesting_fact": "A fascinating, lesser-known fact or achievement related to the query",
  "video_clips": [
    {
      "title": "Descriptive title for the video clip",
      "description": "Brief description of what the video shows",
      "video_url": "Full YouTube URL"
    }
  ],
  "table": {
    "headers": ["Column1", "Column2"],
    "rows": [
      ["value1", "value2"]
    ]
  }
}

`)

	fmt.Fprintf(&b, `VIDEO CLIP INSTRUCTIONS:
- Use the search grounding tool to find REAL, EXISTING videos; never fabricate URLs
- Search with queries like "youtube %s [player name] [event/achievement]"
- Provide 2-3 relevant video_clips with actual URLs from your search results
- Prioritize official channels, highlight compilations, and popular sports content creators
- If no specific video is found, use highly descriptive titles that will work for search

RESPONSE GUIDELINES:
- For player statistics: include key metrics relevant to the sport
- For team queries: provide standings, win-loss records, recent form
- For tournament queries: include winners, top performers, notable records
- For comparison queries: create side-by-side comparison tables
- For "not found" scenarios: return a helpful message in summary with an empty table: { "headers": [], "rows": [] }`, strings.ToLower(sport))

	return b.String()
}
