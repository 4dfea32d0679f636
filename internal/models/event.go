package models

// ActivityEvent is published to the event stream on review and watchlist
// mutations.
type ActivityEvent struct {
	EventID   string `json:"event_id"`  // Unique event id
	Operation string `json:"operation"` // e.g. "review_created", "watchlist_deleted"
	UserID    int64  `json:"user_id"`   // Acting user, 0 when the operation is unauthenticated
	MovieID   int64  `json:"movie_id"`  // Affected movie
	Timestamp int64  `json:"timestamp"` // Unix seconds
}
