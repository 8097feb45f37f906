package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmtrivia/internal/config"
)

func newTestClient(upstream *httptest.Server) *Client {
	return NewClient(config.TMDBConfig{
		APIKey:       "test-key",
		BaseURL:      upstream.URL,
		ImageBaseURL: "https://image.tmdb.org/t/p",
		PosterSize:   "w500",
		TimeoutMs:    2000,
	})
}

func TestSearchMovies_MapsResults(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("expected api_key to be forwarded, got %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "fight club" {
			t.Errorf("expected query to be forwarded, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":550,"title":"Fight Club","release_date":"1999-10-15","poster_path":"/abc.jpg"},{"id":551,"title":"No Poster","release_date":""}]}`))
	}))
	defer upstream.Close()

	c := newTestClient(upstream)

	movies, err := c.SearchMovies(context.Background(), "fight club")
	if err != nil {
		t.Fatalf("SearchMovies returned error: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	if movies[0].ID != 550 || movies[0].Title != "Fight Club" || movies[0].ReleaseDate != "1999-10-15" {
		t.Fatalf("unexpected first movie: %+v", movies[0])
	}
	if movies[1].PosterPath != "" {
		t.Fatalf("expected empty poster path, got %q", movies[1].PosterPath)
	}
}

func TestSearchMovies_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	c := newTestClient(upstream)

	if _, err := c.SearchMovies(context.Background(), "anything"); err == nil {
		t.Fatalf("expected error on non-200 upstream status")
	}
}

func TestMovieDetails(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/550" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":550,"title":"Fight Club","release_date":"1999-10-15","poster_path":"/abc.jpg"}`))
	}))
	defer upstream.Close()

	c := newTestClient(upstream)

	movie, err := c.MovieDetails(context.Background(), "550")
	if err != nil {
		t.Fatalf("MovieDetails returned error: %v", err)
	}
	if movie.Title != "Fight Club" || movie.ReleaseDate != "1999-10-15" || movie.PosterPath != "/abc.jpg" {
		t.Fatalf("unexpected movie: %+v", movie)
	}
}

func TestMovieCredits(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/550/credits" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cast":[{"name":"Brad Pitt","character":"Tyler Durden","order":0}],"crew":[{"name":"David Fincher","job":"Director"}]}`))
	}))
	defer upstream.Close()

	c := newTestClient(upstream)

	credits, err := c.MovieCredits(context.Background(), "550")
	if err != nil {
		t.Fatalf("MovieCredits returned error: %v", err)
	}
	if len(credits.Cast) != 1 || credits.Cast[0].Name != "Brad Pitt" {
		t.Fatalf("unexpected cast: %+v", credits.Cast)
	}
	if len(credits.Crew) != 1 || credits.Crew[0].Job != "Director" {
		t.Fatalf("unexpected crew: %+v", credits.Crew)
	}
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(config.TMDBConfig{})

	if _, err := c.SearchMovies(context.Background(), "q"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured from SearchMovies, got %v", err)
	}
	if _, err := c.MovieDetails(context.Background(), "550"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured from MovieDetails, got %v", err)
	}
	if _, err := c.MovieCredits(context.Background(), "550"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured from MovieCredits, got %v", err)
	}
}

func TestPosterURL(t *testing.T) {
	c := NewClient(config.TMDBConfig{PosterSize: "w500"})

	if got := c.PosterURL(""); got != nil {
		t.Fatalf("expected nil poster URL for empty path, got %q", *got)
	}

	got := c.PosterURL("/abc.jpg")
	if got == nil {
		t.Fatalf("expected poster URL, got nil")
	}
	if *got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Fatalf("unexpected poster URL %q", *got)
	}
}
