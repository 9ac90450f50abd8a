package models

import "time"

// SearchQuery is one append-only telemetry record per search attempt.
// A nil UserUID means the search was anonymous.
type SearchQuery struct {
	ID        int64     `json:"id"`
	UserUID   *string   `json:"user_uid"`
	Sport     string    `json:"sport"`
	QueryText string    `json:"query_text"`
	HasError  bool      `json:"has_error"`
	CreatedAt time.Time `json:"created_at"`
}

// PopularQuery is one (query_text, sport) group ranked by successful search count.
type PopularQuery struct {
	QueryText    string    `json:"query_text"`
	Sport        string    `json:"sport"`
	Count        int       `json:"count"`
	LastSearched time.Time `json:"last_searched"`
}

// SportCount is the per-sport telemetry breakdown.
type SportCount struct {
	Sport         string `json:"sport"`
	TotalQueries  int    `json:"total_queries"`
	DistinctUsers int    `json:"distinct_users"`
}

// DayCount is one day of search activity.
type DayCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// ActiveUser is a user ranked by search volume.
type ActiveUser struct {
	UID         string  `json:"uid"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name"`
	QueryCount  int     `json:"query_count"`
}
