package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user authenticated by the external identity provider.
// The provider-issued uid is the sole identity key; the uuid id is a surrogate.
type User struct {
	ID          uuid.UUID `json:"id"`
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name"`
	PhotoURL    *string   `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	LastLogin   time.Time `json:"last_login"`
	LoginCount  int       `json:"login_count"`
}

// LoginResult is the outcome of an identity upsert.
type LoginResult struct {
	IsNewUser  bool `json:"isNewUser"`
	LoginCount int  `json:"loginCount"`
}

// UserStats summarizes user and query activity for the stats endpoint.
type UserStats struct {
	TotalUsers    int `json:"totalUsers"`
	TodayLogins   int `json:"todayLogins"`
	NewUsersToday int `json:"newUsersToday"`
	TotalQueries  int `json:"totalQueries"`
	TodayQueries  int `json:"todayQueries"`
}
