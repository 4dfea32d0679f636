package models

// MovieDB represents a catalog record in the database, populated once from
// the external movie lookup.
type MovieDB struct {
	MovieID    int64   `json:"id" db:"movie_id"`              // Primary key
	ImdbID     string  `json:"imdb_id" db:"imdb_id"`          // Unique external catalog id
	Title      string  `json:"title" db:"title"`              // Exact title as returned by the lookup
	Year       string  `json:"year" db:"year"`                // Release year (free-form, e.g. "2010" or "2008-2013")
	Genre      string  `json:"genre" db:"genre"`              // Comma-separated genres
	Poster     string  `json:"poster" db:"poster"`            // Poster URL
	Plot       string  `json:"plot" db:"plot"`                // Short plot
	ImdbRating float64 `json:"imdb_rating" db:"imdb_rating"`  // Rating, 0 when unrated
	Type       string  `json:"type" db:"type"`                // movie / series / episode
	Awards     string  `json:"awards" db:"awards"`            // Awards summary
	Language   string  `json:"language" db:"language"`        // Comma-separated languages
	Runtime    string  `json:"runtime" db:"runtime"`          // Runtime, e.g. "148 min"
	Released   string  `json:"released" db:"released"`        // Release date, e.g. "16 Jul 2010"
}

// MovieLookup is the payload returned by the external movie lookup service.
// A miss is signaled in-band by Response == "False".
type MovieLookup struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	ImdbID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	Poster     string `json:"Poster"`
	Plot       string `json:"Plot"`
	ImdbRating string `json:"imdbRating"`
	Type       string `json:"Type"`
	Awards     string `json:"Awards"`
	Language   string `json:"Language"`
	Runtime    string `json:"Runtime"`
	Released   string `json:"Released"`
}
