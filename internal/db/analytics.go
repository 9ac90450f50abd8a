package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"statline/internal/models"
)

// PopularQueries ranks successful searches grouped by (query_text, sport).
// Failed attempts are excluded so a broken query cannot trend. An empty sport
// means all sports. Ties on count break most-recent-first so the ordering is
// deterministic rather than left to incidental store ordering.
func (d *DB) PopularQueries(ctx context.Context, sport string, limit int) ([]models.PopularQuery, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT query_text, sport, COUNT(*) AS cnt, MAX(created_at) AS last_searched
		FROM search_queries
		WHERE has_error = FALSE AND ($1 = '' OR sport = $1)
		GROUP BY query_text, sport
		ORDER BY cnt DESC, last_searched DESC
		LIMIT $2
	`, sport, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	queries := []models.PopularQuery{}
	for rows.Next() {
		var q models.PopularQuery
		if err := rows.Scan(&q.QueryText, &q.Sport, &q.Count, &q.LastSearched); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// UserHistory returns a user's telemetry rows, newest first. Anonymous rows
// carry no uid so they never show up in any history.
func (d *DB) UserHistory(ctx context.Context, uid string, limit int) ([]models.SearchQuery, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, user_uid, sport, query_text, has_error, created_at
		FROM search_queries
		WHERE user_uid = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSearchQueries(rows)
}

// SportBreakdown returns per-sport query totals and distinct authenticated
// user counts, busiest sport first. COUNT(DISTINCT user_uid) skips NULLs, so
// anonymous searches count toward totals but not toward distinct users.
func (d *DB) SportBreakdown(ctx context.Context) ([]models.SportCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT sport, COUNT(*) AS total, COUNT(DISTINCT user_uid) AS distinct_users
		FROM search_queries
		GROUP BY sport
		ORDER BY total DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := []models.SportCount{}
	for rows.Next() {
		var s models.SportCount
		if err := rows.Scan(&s.Sport, &s.TotalQueries, &s.DistinctUsers); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, s)
	}
	return breakdown, rows.Err()
}

// ActivityOverTime returns per-day query counts for the trailing window,
// inclusive of today, newest day first.
func (d *DB) ActivityOverTime(ctx context.Context, windowDays int) ([]models.DayCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT created_at::date AS day, COUNT(*)
		FROM search_queries
		WHERE created_at >= CURRENT_DATE - make_interval(days => $1 - 1)
		GROUP BY day
		ORDER BY day DESC
	`, windowDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activity := []models.DayCount{}
	for rows.Next() {
		var d models.DayCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, err
		}
		activity = append(activity, d)
	}
	return activity, rows.Err()
}

// ActiveUsers ranks authenticated users by search volume.
func (d *DB) ActiveUsers(ctx context.Context, limit int) ([]models.ActiveUser, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT u.uid, u.email, u.display_name, COUNT(q.id) AS query_count
		FROM users u
		JOIN search_queries q ON q.user_uid = u.uid
		GROUP BY u.uid, u.email, u.display_name
		ORDER BY query_count DESC, u.uid ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.ActiveUser{}
	for rows.Next() {
		var u models.ActiveUser
		if err := rows.Scan(&u.UID, &u.Email, &u.DisplayName, &u.QueryCount); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanSearchQueries(rows pgx.Rows) ([]models.SearchQuery, error) {
	queries := []models.SearchQuery{}
	for rows.Next() {
		var q models.SearchQuery
		if err := rows.Scan(&q.ID, &q.UserUID, &q.Sport, &q.QueryText, &q.HasError, &q.CreatedAt); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}
