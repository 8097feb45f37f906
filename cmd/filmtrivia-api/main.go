package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"filmtrivia/internal/config"
	server "filmtrivia/internal/http"
	"filmtrivia/internal/llm"
	"filmtrivia/internal/tmdb"
	"filmtrivia/internal/trivia"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Set up logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	if cfg.TMDB.APIKey == "" {
		logger.Warn("tmdb api key is not configured; movie search and details will be unavailable")
	}

	meta := tmdb.NewClient(cfg.TMDB)
	factory := func() (llm.Client, llm.Provider, string, error) {
		return llm.NewClientFromConfig(cfg)
	}
	svc := trivia.NewService(meta, factory, cfg, logger)

	s := server.NewServer(cfg, svc, logger)
	if err := s.Listen(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
