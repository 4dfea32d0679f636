package models

// WatchlistStatusDefault is the status assigned to freshly created entries.
// Status is a free-form string; no transition table is enforced.
const WatchlistStatusDefault = "unwatched"

// WatchlistDB represents a watchlist entry in the database.
// At most one entry exists per movie across all users.
type WatchlistDB struct {
	EntryID int64    `json:"id" db:"entry_id"`       // Primary key
	UserID  int64    `json:"user_id" db:"user_id"`   // Entry owner
	MovieID int64    `json:"movie_id" db:"movie_id"` // Tracked movie
	Status  string   `json:"status" db:"status"`     // Watch status, defaults to "unwatched"
	Note    *string  `json:"note" db:"note"`         // Optional free-text note
	Rating  *float64 `json:"rating" db:"rating"`     // Optional personal rating
}

// WatchlistUpdate carries the optional fields of a partial entry update.
// Nil fields are left untouched.
type WatchlistUpdate struct {
	Status *string  // New status, if supplied
	Note   *string  // New note, if supplied
	Rating *float64 // New rating, if supplied
}

// WatchlistView is the composed entry representation returned to callers.
type WatchlistView struct {
	MovieID   int64    `json:"movie_id"`
	MovieName string   `json:"movie_name"`
	UserName  string   `json:"user_name"`
	Status    string   `json:"status"`
	Note      *string  `json:"note"`
	Rating    *float64 `json:"rating"`
}
