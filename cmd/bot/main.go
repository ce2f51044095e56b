package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/park285/guild-status-bot-go/internal/app"
	"github.com/park285/guild-status-bot-go/internal/bootstrap"
	"github.com/park285/guild-status-bot-go/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := bootstrap.NewLoggerFromConfig(cfg.Logging, "bot.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Guild status bot starting...",
		slog.String("version", cfg.Version),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("config", cfg.String()),
	)

	runtime, err := app.BuildRuntime(cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble application services", slog.Any("error", err))
		os.Exit(1)
	}

	if err := runtime.Run(context.Background()); err != nil {
		logger.Error("Bot exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}
