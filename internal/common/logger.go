package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Fields represents structured logging fields.
type Fields map[string]any

// ParseLevel maps a config string onto a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// SetupLogger configures the global logger. Logs go to stderr so command
// output on stdout stays pipeable.
func SetupLogger(level slog.Level, format string) error {
	return setupLogger(os.Stderr, level, format)
}

func setupLogger(w io.Writer, level slog.Level, format string) error {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "console", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// ComponentLogger returns the default logger tagged with a component name.
func ComponentLogger(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

// LogError logs an error with additional context.
func LogError(err error, msg string, fields Fields) {
	attrs := make([]slog.Attr, 0, len(fields)+2)
	attrs = append(attrs, slog.String("error", err.Error()), slog.String("kind", string(Classify(err))))

	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	slog.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}

// RedactToken keeps enough of a bearer token to tell two apart in logs.
func RedactToken(token string) string {
	if len(token) > 16 {
		return token[:4] + "..." + token[len(token)-4:]
	}
	if token == "" {
		return "<none>"
	}
	return "<redacted>"
}
