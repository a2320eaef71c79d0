package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LogFormat represents the available log output formats
type LogFormat string

const (
	LogFormatPretty LogFormat = "pretty" // Colorized, human-readable (tint)
	LogFormatJSON   LogFormat = "json"   // JSON lines
	LogFormatText   LogFormat = "text"   // key=value pairs
)

// NewHandler builds a handler writing to w in the given format.
func NewHandler(w io.Writer, format LogFormat, level slog.Level) slog.Handler {
	switch format {
	case LogFormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case LogFormatText:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
		})
	}
}

// InitLogger initializes the global slog logger with the specified format and level
func InitLogger(format LogFormat, level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, format, level)))
}

// ParseLogFormat converts a string to LogFormat, defaulting to pretty
func ParseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	case "text":
		return LogFormatText
	default:
		return LogFormatPretty
	}
}

// ParseLogLevel converts a string to slog.Level, defaulting to Info
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
