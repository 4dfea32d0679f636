package models

import (
	"time"
)

// ReviewDB represents a review record in the database.
// At most one review exists per (user, movie) pair.
type ReviewDB struct {
	ReviewID  int64     `json:"id" db:"review_id"`          // Primary key
	UserID    int64     `json:"user_id" db:"user_id"`       // Review author
	MovieID   int64     `json:"movie_id" db:"movie_id"`     // Reviewed movie
	Review    string    `json:"review" db:"review"`         // Free-text body
	Likes     int       `json:"likes" db:"likes"`           // Like counter
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // Last modification timestamp
}

// ReviewUpdate carries the optional fields of a partial review update.
// Nil fields are left untouched.
type ReviewUpdate struct {
	Review *string // New body, if supplied
	Likes  *int    // New like count, if supplied
}

// ReviewView is the composed review representation returned to callers.
type ReviewView struct {
	MovieID   int64     `json:"movie_id"`
	UserID    int64     `json:"user_id"`
	MovieName string    `json:"movie_name"`
	UserName  string    `json:"user_name"`
	Review    string    `json:"review"`
	Likes     int       `json:"likes"`
	UpdatedAt time.Time `json:"updated_at"`
}
