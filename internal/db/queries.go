package db

import (
	"context"

	"statline/internal/models"
)

// RecordQuery appends one telemetry row for a search attempt. A nil userUID
// means the search was anonymous. Rows are never updated afterwards.
func (d *DB) RecordQuery(ctx context.Context, userUID *string, sport, queryText string, hasError bool) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO search_queries (user_uid, sport, query_text, has_error)
		VALUES ($1, $2, $3, $4)
	`, userUID, sport, queryText, hasError)
	return err
}

// GetRecentQueries returns the newest telemetry rows, bounded by limit.
func (d *DB) GetRecentQueries(ctx context.Context, limit int) ([]models.SearchQuery, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, user_uid, sport, query_text, has_error, created_at
		FROM search_queries
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSearchQueries(rows)
}

// QueryOutcomeCount is a per-(sport, outcome) telemetry total for metrics export.
type QueryOutcomeCount struct {
	Sport    string
	HasError bool
	Count    int
}

// GetQueryOutcomeCounts returns per-sport query totals split by outcome.
func (d *DB) GetQueryOutcomeCounts(ctx context.Context) ([]QueryOutcomeCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT sport, has_error, COUNT(*)
		FROM search_queries
		GROUP BY sport, has_error
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []QueryOutcomeCount
	for rows.Next() {
		var c QueryOutcomeCount
		if err := rows.Scan(&c.Sport, &c.HasError, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
