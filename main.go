package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/abhisek/sqlcoach/cmd"
	"github.com/abhisek/sqlcoach/internal/logging"
)

func main() {
	// A missing .env is fine; the environment may already carry the keys.
	_ = godotenv.Load()

	// Logs go to stderr so they never interleave with the session output.
	// The interactive loop stays quiet unless a level is asked for.
	level := slog.LevelWarn
	if v := os.Getenv("SQLCOACH_LOG_LEVEL"); v != "" {
		level = logging.ParseLevel(v)
	}
	logging.Init(level, os.Getenv("SQLCOACH_LOG_FORMAT"))

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
