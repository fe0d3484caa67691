package main

import (
	"log/slog"
	"os"

	"github.com/example/social-battery/internal/cli"
	"github.com/example/social-battery/internal/logging"
)

func main() {
	logger := logging.NewLogger(os.Stderr, slog.LevelInfo)
	slog.SetDefault(logger)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
