package config

import (
	"fmt"
	"io"
	"log/slog"
)

// NewLogHandler builds a slog handler writing to w. Unknown level or format
// values fall back to info and json, with a warning written to w.
func NewLogHandler(w io.Writer, level, format string) slog.Handler {
	var slogLevel slog.Level

	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
		_, _ = fmt.Fprintf(w, "WARNING: unknown log level %q, defaulting to \"info\"\n", level)
	}

	handlerOpts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	switch format {
	case "text":
		return slog.NewTextHandler(w, handlerOpts)
	case "json":
		return slog.NewJSONHandler(w, handlerOpts)
	default:
		_, _ = fmt.Fprintf(w, "WARNING: unknown log format %q, defaulting to \"json\"\n", format)

		return slog.NewJSONHandler(w, handlerOpts)
	}
}

// SetupLogging installs a handler built by NewLogHandler as the slog default
// and returns the logger.
func SetupLogging(w io.Writer, level, format string) *slog.Logger {
	logger := slog.New(NewLogHandler(w, level, format))
	slog.SetDefault(logger)

	return logger
}
