package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLogFormat(t *testing.T) {
	if ParseLogFormat("JSON") != LogFormatJSON || ParseLogFormat("text") != LogFormatText {
		t.Error("expected json and text formats to parse")
	}
	if ParseLogFormat("fancy") != LogFormatPretty {
		t.Error("expected unknown formats to fall back to pretty")
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, LogFormatJSON, slog.LevelWarn))

	log.Info("dropped")
	log.Warn("verse fetch failed", "key", "2:255")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line above the level, got %d", len(lines))
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if rec["msg"] != "verse fetch failed" || rec["key"] != "2:255" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNewHandler_Pretty(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, LogFormatPretty, slog.LevelInfo)).Info("server starting", "host", "0.0.0.0:8080")

	if !strings.Contains(buf.String(), "server starting") {
		t.Errorf("expected message in pretty output, got %q", buf.String())
	}
}
