package model

// MovieSummary is one search hit as returned to the web client. Poster
// is nil when the metadata provider has no poster path for the movie,
// which serializes as JSON null.
type MovieSummary struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Year   string  `json:"year"`
	Poster *string `json:"poster"`
}

// MovieFacts is the detail-plus-trivia payload for a single movie.
// Facts preserves the order the model produced them in.
type MovieFacts struct {
	Title  string   `json:"title"`
	Year   string   `json:"year"`
	Poster *string  `json:"poster"`
	Facts  []string `json:"facts"`
}
