package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the process-wide logger: JSON records on stdout at the
// level named by LOG_LEVEL (debug, info, warn, error; default info).
// The database sink is attached later in main, once the connection is up.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	})
	slog.SetDefault(slog.New(handler))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
