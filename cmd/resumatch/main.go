package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resumatch/internal/cli"
	"resumatch/internal/config"
	"resumatch/internal/errors"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// a missing .env is not an error
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		logger.LogError(err, "Failed to load secrets from Vault")
		os.Exit(1)
	}

	logger.Debug("Starting resumatch",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"entities_provider", cfg.GetEntitiesConfig().Provider,
		"similarity_provider", cfg.GetSimilarityConfig().Provider)

	if err := cli.Execute(ctx, cfg, logger); err != nil {
		logger.LogError(err, "Application execution failed")
		os.Exit(1)
	}
}
