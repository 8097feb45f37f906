package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TMDBConfig holds the movie metadata provider settings. An empty
// APIKey disables search and detail fetches rather than failing startup.
type TMDBConfig struct {
	APIKey       string `yaml:"apiKey"`
	BaseURL      string `yaml:"baseURL"`
	ImageBaseURL string `yaml:"imageBaseURL"`
	PosterSize   string `yaml:"posterSize"`
	Language     string `yaml:"language"`
	TimeoutMs    int    `yaml:"timeoutMs"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
	Model   string `yaml:"model"`
}

type AnthropicConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
	Model   string `yaml:"model"`
}

type GoogleLLMConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

type LLMConfig struct {
	DefaultProvider string          `yaml:"defaultProvider"`
	MaxTokens       int             `yaml:"maxTokens"`
	TimeoutMs       int             `yaml:"timeoutMs"`
	OpenAI          OpenAIConfig    `yaml:"openai"`
	Anthropic       AnthropicConfig `yaml:"anthropic"`
	Google          GoogleLLMConfig `yaml:"google"`
}

// FactsConfig controls the trivia prompt and the extraction bounds.
type FactsConfig struct {
	Count         int `yaml:"count"`
	MaxFacts      int `yaml:"maxFacts"`
	MinFacts      int `yaml:"minFacts"`
	SentenceLimit int `yaml:"sentenceLimit"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	TMDB   TMDBConfig   `yaml:"tmdb"`
	LLM    LLMConfig    `yaml:"llm"`
	Facts  FactsConfig  `yaml:"facts"`
}

// Load reads configuration from path on top of built-in defaults. A
// missing file is not an error; the service runs on defaults plus
// environment variables so that a bare deployment still serves (with
// degraded upstreams). A file that exists but fails to decode is an
// error, since that indicates a broken deployment rather than a bare one.
func Load(path string) (*Config, error) {
	cfg := defaults()

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	applyEnv(cfg)
	fillDefaults(cfg)

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			PosterSize:   "w500",
			Language:     "en-US",
			TimeoutMs:    6000,
		},
		LLM: LLMConfig{
			DefaultProvider: "anthropic",
			MaxTokens:       300,
			TimeoutMs:       30000,
			Anthropic: AnthropicConfig{
				Model: "claude-3-haiku-20240307",
			},
		},
		Facts: FactsConfig{
			Count:         3,
			MaxFacts:      12,
			MinFacts:      2,
			SentenceLimit: 3,
		},
	}
}

// applyEnv overlays credential environment variables on top of file
// values. Environment wins so containerized deployments can ship a
// checked-in config file without secrets in it.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		cfg.TMDB.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.LLM.Anthropic.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.OpenAI.APIKey = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.LLM.Google.APIKey = v
	}
}

// fillDefaults restores required values that the config file may have
// explicitly blanked out.
func fillDefaults(cfg *Config) {
	d := defaults()

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = d.Server.Port
	}
	if cfg.TMDB.BaseURL == "" {
		cfg.TMDB.BaseURL = d.TMDB.BaseURL
	}
	if cfg.TMDB.ImageBaseURL == "" {
		cfg.TMDB.ImageBaseURL = d.TMDB.ImageBaseURL
	}
	if cfg.TMDB.PosterSize == "" {
		cfg.TMDB.PosterSize = d.TMDB.PosterSize
	}
	if cfg.TMDB.Language == "" {
		cfg.TMDB.Language = d.TMDB.Language
	}
	if cfg.TMDB.TimeoutMs <= 0 {
		cfg.TMDB.TimeoutMs = d.TMDB.TimeoutMs
	}
	if cfg.LLM.DefaultProvider == "" {
		cfg.LLM.DefaultProvider = d.LLM.DefaultProvider
	}
	if cfg.LLM.MaxTokens <= 0 {
		cfg.LLM.MaxTokens = d.LLM.MaxTokens
	}
	if cfg.LLM.TimeoutMs <= 0 {
		cfg.LLM.TimeoutMs = d.LLM.TimeoutMs
	}
	if cfg.LLM.Anthropic.Model == "" {
		cfg.LLM.Anthropic.Model = d.LLM.Anthropic.Model
	}
	if cfg.Facts.Count <= 0 {
		cfg.Facts.Count = d.Facts.Count
	}
	if cfg.Facts.MaxFacts <= 0 {
		cfg.Facts.MaxFacts = d.Facts.MaxFacts
	}
	if cfg.Facts.MinFacts < 0 {
		cfg.Facts.MinFacts = 0
	}
	if cfg.Facts.SentenceLimit <= 0 {
		cfg.Facts.SentenceLimit = d.Facts.SentenceLimit
	}
}
