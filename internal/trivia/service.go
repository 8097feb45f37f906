package trivia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"filmtrivia/internal/config"
	"filmtrivia/internal/facts"
	"filmtrivia/internal/llm"
	"filmtrivia/internal/metrics"
	"filmtrivia/internal/model"
	"filmtrivia/internal/tmdb"
)

// ErrMetadataUnavailable wraps any failure to fetch movie details from
// the metadata provider.
var ErrMetadataUnavailable = errors.New("movie metadata unavailable")

// ErrGenerationFailed wraps completion-provider transport failures.
// Extraction yielding zero facts is a different failure and surfaces
// as facts.ErrNoFacts.
var ErrGenerationFailed = errors.New("trivia generation failed")

// MetadataClient is the slice of the TMDB client the service needs,
// kept narrow so tests can substitute a fake.
type MetadataClient interface {
	SearchMovies(ctx context.Context, query string) ([]tmdb.Movie, error)
	MovieDetails(ctx context.Context, id string) (*tmdb.Movie, error)
	MovieCredits(ctx context.Context, id string) (*tmdb.Credits, error)
	PosterURL(path string) *string
}

// CompletionFactory builds the completion client on demand. It fails
// when the active provider is not fully configured, which the service
// treats as "generation disabled" rather than an error.
type CompletionFactory func() (llm.Client, llm.Provider, string, error)

// Service orchestrates one movie-trivia request: metadata fetch, then
// completion, then extraction, strictly in that order.
type Service struct {
	meta          MetadataClient
	newCompletion CompletionFactory
	factCount     int
	maxTokens     int
	extractOpts   facts.Options
	logger        *slog.Logger
}

func NewService(meta MetadataClient, factory CompletionFactory, cfg *config.Config, logger *slog.Logger) *Service {
	factCount := cfg.Facts.Count
	if factCount <= 0 {
		factCount = 3
	}

	maxTokens := cfg.LLM.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 300
	}

	return &Service{
		meta:          meta,
		newCompletion: factory,
		factCount:     factCount,
		maxTokens:     maxTokens,
		extractOpts: facts.Options{
			MaxFacts:      cfg.Facts.MaxFacts,
			MinFacts:      cfg.Facts.MinFacts,
			SentenceLimit: cfg.Facts.SentenceLimit,
		},
		logger: logger,
	}
}

// SearchMovies maps metadata-provider hits to the wire summary shape.
// The caller decides how to handle errors; for the public search route
// they are swallowed into an empty result set.
func (s *Service) SearchMovies(ctx context.Context, query string) ([]model.MovieSummary, error) {
	movies, err := s.meta.SearchMovies(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]model.MovieSummary, 0, len(movies))
	for _, m := range movies {
		results = append(results, model.MovieSummary{
			ID:     m.ID,
			Title:  m.Title,
			Year:   releaseYear(m.ReleaseDate),
			Poster: s.meta.PosterURL(m.PosterPath),
		})
	}

	return results, nil
}

// MovieFacts fetches details for one movie and generates trivia for it.
// Metadata failure aborts before any completion call. An unconfigured
// completion provider degrades to a single placeholder fact; this is a
// successful response, not an error.
func (s *Service) MovieFacts(ctx context.Context, movieID string) (*model.MovieFacts, error) {
	movie, err := s.meta.MovieDetails(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}

	out := &model.MovieFacts{
		Title:  movie.Title,
		Year:   releaseYear(movie.ReleaseDate),
		Poster: s.meta.PosterURL(movie.PosterPath),
	}

	// Credits enrich the prompt but are never worth failing the request
	// over.
	credits, err := s.meta.MovieCredits(ctx, movieID)
	if err != nil {
		credits = nil
		if s.logger != nil {
			s.logger.Warn("movie credits fetch failed", "movie_id", movieID, "error", err)
		}
	}

	client, provider, modelName, err := s.newCompletion()
	if err != nil {
		if s.logger != nil {
			s.logger.Info("completion provider not configured, returning placeholder fact",
				"movie_id", movieID, "provider", provider, "error", err)
		}
		out.Facts = []string{placeholderFact(out.Title, out.Year)}
		metrics.RecordFactGeneration(string(provider), modelName, "placeholder", len(out.Facts))
		return out, nil
	}

	result, err := client.Complete(ctx, llm.Request{
		Prompt:    s.buildPrompt(out.Title, out.Year, credits),
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		metrics.RecordFactGeneration(string(provider), modelName, "error", 0)
		return nil, fmt.Errorf("%w: %s/%s: %v", ErrGenerationFailed, provider, modelName, err)
	}

	extracted, err := facts.Extract(result.Content, s.extractOpts)
	if err != nil {
		// facts.ErrNoFacts passes through for the handler to classify.
		metrics.RecordFactGeneration(string(provider), modelName, "empty", 0)
		return nil, err
	}

	metrics.RecordFactGeneration(string(provider), modelName, "success", len(extracted))
	out.Facts = extracted
	return out, nil
}

// buildPrompt constructs the trivia prompt, enriched with director and
// top billing when credits are available.
func (s *Service) buildPrompt(title, year string, credits *tmdb.Credits) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Give me %d fascinating trivia facts about the movie '%s' (%s)", s.factCount, title, year)

	if credits != nil {
		if director := directorName(credits); director != "" {
			fmt.Fprintf(&b, " directed by %s", director)
		}
		if cast := topBilling(credits, 3); len(cast) > 0 {
			fmt.Fprintf(&b, ", starring %s", strings.Join(cast, ", "))
		}
	}

	b.WriteString(". Keep each fact short, fun, and unique. Return them as a simple list.")
	return b.String()
}

func placeholderFact(title, year string) string {
	return fmt.Sprintf("Trivia generation is disabled, so no facts are available for '%s' (%s).", title, year)
}

// releaseYear takes the 4-digit year prefix of a provider release date,
// or empty when the date is too short to contain one.
func releaseYear(releaseDate string) string {
	if len(releaseDate) < 4 {
		return ""
	}
	return releaseDate[:4]
}

func directorName(credits *tmdb.Credits) string {
	for _, crew := range credits.Crew {
		if crew.Job == "Director" {
			return crew.Name
		}
	}
	return ""
}

// topBilling returns up to n cast names in billing order.
func topBilling(credits *tmdb.Credits, n int) []string {
	var names []string
	for _, cast := range credits.Cast {
		if cast.Name == "" {
			continue
		}
		names = append(names, cast.Name)
		if len(names) == n {
			break
		}
	}
	return names
}
