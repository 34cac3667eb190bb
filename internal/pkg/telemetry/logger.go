// Package telemetry wires up process-wide logging.
package telemetry

import (
	"log/slog"
	"os"
	"strings"
)

// InitLogger installs a JSON slog handler as the default logger. The level
// string comes from configuration ("debug", "info", "warn", "error");
// anything unrecognised falls back to info.
func InitLogger(level string) {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
