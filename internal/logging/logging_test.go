package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/MyelinBots/vitals-go/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHandler_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(handler(&buf, config.LogConfig{Level: "info", Format: "json"}))
	logger.Info("hello", "component", "test")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "hello" || line["component"] != "test" {
		t.Errorf("unexpected log line: %v", line)
	}
}

func TestHandler_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(handler(&buf, config.LogConfig{Level: "error", Format: "text"}))
	logger.Info("dropped")

	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at error level, got %q", buf.String())
	}
}
