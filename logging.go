package main

import (
	"log/slog"
	"os"
)

// newLogger builds the process-wide slog handler, level selected by
// BEZ_LOG (debug/info/warn/error, default info): a single environment
// variable, strict about garbage values.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if e := os.Getenv("BEZ_LOG"); e != "" {
		switch e {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			panic("malformed BEZ_LOG environment variable, want debug/info/warn/error: " + e)
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
