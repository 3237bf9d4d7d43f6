package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/MyelinBots/vitals-go/config"
)

// New builds the process logger from config and installs it as the slog default.
func New(cfg config.LogConfig) *slog.Logger {
	logger := slog.New(handler(os.Stderr, cfg))
	slog.SetDefault(logger)
	return logger
}

func handler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard is a logger for tests and tools that should stay quiet.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
