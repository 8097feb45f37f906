package http

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"filmtrivia/internal/config"
	"filmtrivia/internal/facts"
	"filmtrivia/internal/llm"
	"filmtrivia/internal/metrics"
	"filmtrivia/internal/model"
	"filmtrivia/internal/trivia"
)

// searchMoviesHandler serves GET /search_movies. Upstream failures are
// swallowed into an empty result set: the search box should never show
// the user an error page because the metadata provider hiccuped.
func searchMoviesHandler(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return c.JSON([]model.MovieSummary{})
	}

	svc := c.Locals("trivia").(TriviaService)

	results, err := svc.SearchMovies(c.Context(), query)
	if err != nil {
		if lg := requestLogger(c); lg != nil {
			lg.Warn("movie search failed", "query", query, "error", err)
		}
		metrics.RecordMovieSearch(0)
		return c.JSON([]model.MovieSummary{})
	}
	if results == nil {
		results = []model.MovieSummary{}
	}

	metrics.RecordMovieSearch(len(results))
	return c.JSON(results)
}

// movieFactsHandler serves GET /get_movie_facts: movie details plus
// generated trivia. Failures are classified at this boundary; the
// placeholder path for an unconfigured completion provider comes back
// from the service as a normal success.
func movieFactsHandler(c *fiber.Ctx) error {
	movieID := strings.TrimSpace(c.Query("movie_id"))
	if movieID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Missing movie_id"})
	}

	svc := c.Locals("trivia").(TriviaService)

	result, err := svc.MovieFacts(c.Context(), movieID)
	if err != nil {
		if lg := requestLogger(c); lg != nil {
			lg.Warn("movie facts request failed", "movie_id", movieID, "error", err)
		}
		switch {
		case errors.Is(err, trivia.ErrMetadataUnavailable):
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to fetch movie details"})
		case errors.Is(err, facts.ErrNoFacts):
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "No facts could be generated"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Problem generating trivia"})
		}
	}

	return c.JSON(result)
}

// healthHandler reports process liveness and whether each external
// dependency is configured. No network calls; this is a config probe,
// not a deep check.
func healthHandler(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)

	_, _, _, err := llm.NewClientFromConfig(cfg)

	return c.JSON(HealthResponse{
		Status:    "ok",
		Anthropic: err == nil,
		TMDBKey:   cfg.TMDB.APIKey != "",
	})
}

func requestLogger(c *fiber.Ctx) *slog.Logger {
	if lg, ok := c.Locals("logger").(*slog.Logger); ok {
		return lg
	}
	return nil
}
