package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/statementkit/statement-intake/cmd/api"
	"github.com/statementkit/statement-intake/pkg/config"
)

func main() {
	// Best effort: env vars win over .env values.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if err := api.Run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}
