package main

import (
	"context"
	"errors"
	"os"

	"github.com/kdlcruz/tito/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "tito",
		Usage:    "Track internship attendance from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated):
			logger.Fatal("not logged in, run 'tito auth login' first")
		case errors.Is(err, shared.ErrInvalidCredentials):
			logger.Fatalf("login failed: %v", err)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
