package app

import (
	"fmt"
	"io"
	"log/slog"
)

func parseLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", levelStr)
	}
}

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances. An unknown
// level falls back to info.
func newLogger(levelStr, formatStr string, logW io.Writer) *slog.Logger {
	level, _ := parseLevel(levelStr)
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(logW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(logW, handlerOpts)
	}
	return slog.New(handler)
}
