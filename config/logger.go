package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process-wide logger. Production emits JSON to stdout
// for log aggregation; everything else emits text. LOG_LEVEL selects the
// minimum level (debug, info, warn, error; default info).
func NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(os.Getenv("LOG_LEVEL"))}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if os.Getenv("GO_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
