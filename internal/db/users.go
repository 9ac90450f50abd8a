package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"statline/internal/models"
)

// UpsertLogin records a login for the given identity in one atomic statement.
// A fresh uid inserts a row with login_count = 1; a known uid refreshes the
// profile fields and increments login_count server-side, so concurrent logins
// for the same uid never lose an update. xmax = 0 distinguishes a fresh insert
// from a conflict update.
func (d *DB) UpsertLogin(ctx context.Context, uid, email, displayName, photoURL string) (*models.LoginResult, error) {
	query := `
		INSERT INTO users (uid, email, display_name, photo_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (uid) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			photo_url = EXCLUDED.photo_url,
			last_login = NOW(),
			login_count = users.login_count + 1
		RETURNING (xmax = 0) AS inserted, login_count
	`

	var result models.LoginResult
	err := d.Pool.QueryRow(ctx, query,
		uid,
		email,
		nullIfEmpty(displayName),
		nullIfEmpty(photoURL),
	).Scan(&result.IsNewUser, &result.LoginCount)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// GetUserByUID retrieves a user by their provider-issued identifier.
func (d *DB) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	query := `
		SELECT id, uid, email, display_name, photo_url, created_at, last_login, login_count
		FROM users WHERE uid = $1
	`

	var user models.User
	err := d.Pool.QueryRow(ctx, query, uid).Scan(
		&user.ID,
		&user.UID,
		&user.Email,
		&user.DisplayName,
		&user.PhotoURL,
		&user.CreatedAt,
		&user.LastLogin,
		&user.LoginCount,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetAllUsers retrieves all users, most recently active first.
func (d *DB) GetAllUsers(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, uid, email, display_name, photo_url, created_at, last_login, login_count
		FROM users ORDER BY last_login DESC
	`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.UID, &u.Email, &u.DisplayName, &u.PhotoURL,
			&u.CreatedAt, &u.LastLogin, &u.LoginCount,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// GetUserStats returns aggregate user and query activity counts.
func (d *DB) GetUserStats(ctx context.Context) (*models.UserStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE last_login::date = CURRENT_DATE),
			(SELECT COUNT(*) FROM users WHERE created_at::date = CURRENT_DATE),
			(SELECT COUNT(*) FROM search_queries),
			(SELECT COUNT(*) FROM search_queries WHERE created_at::date = CURRENT_DATE)
	`

	var stats models.UserStats
	err := d.Pool.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.TodayLogins,
		&stats.NewUsersToday,
		&stats.TotalQueries,
		&stats.TodayQueries,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// DeleteUser deletes a user by uid. Their telemetry rows cascade.
func (d *DB) DeleteUser(ctx context.Context, uid string) error {
	_, err := d.Pool.Exec(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	return err
}
