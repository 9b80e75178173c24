// Package logger builds the structured logger shared by the HTTP layer and
// the background workers.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with the fields this service logs most.
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to stdout. Level comes from LOG_LEVEL; dev
// environments get the text handler, everything else JSON.
func New(env string) *Logger {
	return NewWithWriter(os.Stdout, env, os.Getenv("LOG_LEVEL"))
}

// NewWithWriter is New with an explicit destination and level.
func NewWithWriter(w io.Writer, env, level string) *Logger {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}
	var h slog.Handler
	if strings.EqualFold(env, "dev") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return &Logger{Logger: slog.New(h)}
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(s string) slog.Level {
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

// WithSession adds the booking session id to every record.
func (l *Logger) WithSession(id string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("session_id", id))}
}

// WithError adds err to every record.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}
