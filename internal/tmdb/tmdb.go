package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"filmtrivia/internal/config"
)

// ErrNotConfigured is returned by every call when no API key is set.
// Callers decide how to degrade: search swallows it, detail fetches
// surface it.
var ErrNotConfigured = errors.New("tmdb api key is not configured")

// Movie models only the subset of the TMDB movie object that we care
// about. ReleaseDate is the provider's YYYY-MM-DD string, possibly empty.
type Movie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

// CastMember is one billed actor from the credits endpoint.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember is one crew credit; Job distinguishes directors, writers, etc.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Client is a minimal TMDB v3 API client. It maps requests and
// responses only; policy (what to do on failure, how to build prompts)
// lives in the service layer.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	posterSize   string
	language     string
	client       *http.Client
	timeout      time.Duration
}

// NewClient creates a Client from TMDBConfig. An empty API key is
// allowed; calls will fail with ErrNotConfigured instead.
func NewClient(cfg config.TMDBConfig) *Client {
	timeoutMs := cfg.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 6000
	}
	timeout := time.Duration(timeoutMs) * time.Millisecond

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.themoviedb.org/3"
	}

	imageBase := strings.TrimRight(cfg.ImageBaseURL, "/")
	if imageBase == "" {
		imageBase = "https://image.tmdb.org/t/p"
	}

	posterSize := cfg.PosterSize
	if posterSize == "" {
		posterSize = "w500"
	}

	language := cfg.Language
	if language == "" {
		language = "en-US"
	}

	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      base,
		imageBaseURL: imageBase,
		posterSize:   posterSize,
		language:     language,
		client:       &http.Client{Timeout: timeout},
		timeout:      timeout,
	}
}

type searchMoviesResponse struct {
	Results []Movie `json:"results"`
}

// SearchMovies queries the /search/movie endpoint and returns the raw
// provider hits in ranking order.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty movie search query")
	}

	values := url.Values{}
	values.Set("api_key", c.apiKey)
	values.Set("query", query)
	values.Set("language", c.language)

	var payload searchMoviesResponse
	if err := c.getJSON(ctx, "/search/movie", values, &payload); err != nil {
		return nil, err
	}

	return payload.Results, nil
}

// MovieDetails fetches the /movie/{id} endpoint for a single movie.
func (c *Client) MovieDetails(ctx context.Context, id string) (*Movie, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("empty movie id")
	}

	values := url.Values{}
	values.Set("api_key", c.apiKey)
	values.Set("language", c.language)

	var movie Movie
	if err := c.getJSON(ctx, "/movie/"+url.PathEscape(id), values, &movie); err != nil {
		return nil, err
	}

	return &movie, nil
}

// MovieCredits fetches the /movie/{id}/credits endpoint. Cast comes
// back in billing order from the provider.
func (c *Client) MovieCredits(ctx context.Context, id string) (*Credits, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("empty movie id")
	}

	values := url.Values{}
	values.Set("api_key", c.apiKey)

	var credits Credits
	if err := c.getJSON(ctx, "/movie/"+url.PathEscape(id)+"/credits", values, &credits); err != nil {
		return nil, err
	}

	return &credits, nil
}

// PosterURL builds the full image CDN URL for a poster path, using the
// single configured size variant. Nil when the provider had no poster.
func (c *Client) PosterURL(path string) *string {
	if path == "" {
		return nil
	}
	u := c.imageBaseURL + "/" + c.posterSize + path
	return &u
}

// getJSON performs one GET round trip against the TMDB API with a
// request-scoped timeout on top of the client's own timeout.
func (c *Client) getJSON(ctx context.Context, path string, values url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path + "?" + values.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb request %s failed with status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}

	return nil
}
