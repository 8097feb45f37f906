package http

import (
	"context"

	"filmtrivia/internal/model"
)

// TriviaService is the slice of the service layer the handlers use,
// kept as an interface so tests can inject fakes via c.Locals.
type TriviaService interface {
	SearchMovies(ctx context.Context, query string) ([]model.MovieSummary, error)
	MovieFacts(ctx context.Context, movieID string) (*model.MovieFacts, error)
}

// ErrorResponse is the wire shape for every failure: a bare message,
// matching what the web client expects.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports process liveness plus the configuration state
// of both external dependencies. The "anthropic" key reports whether
// the active completion provider is fully configured, whatever it is.
type HealthResponse struct {
	Status    string `json:"status"`
	Anthropic bool   `json:"anthropic"`
	TMDBKey   bool   `json:"tmdb_key"`
}
