package models

import (
	"time"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       int64     `json:"id" db:"user_id"`                 // Primary key
	Username     string    `json:"username" db:"username"`          // Unique username
	Email        string    `json:"email" db:"email"`                // Unique email
	PasswordHash string    `json:"-" db:"password_hash"`            // Bcrypt password hash
	JoinedAt     time.Time `json:"joined_at" db:"joined_at"`        // Registration timestamp
}

// UserUpdate carries the optional fields of a partial profile update.
// Nil fields are left untouched.
type UserUpdate struct {
	Username *string // New username, if supplied
	Email    *string // New email, if supplied
}
