// Package logging wraps log/slog with benchmark-specific fields.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with consistent field names for the benchmark.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON logs to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// WithThread tags records with a worker id and role.
func (l *Logger) WithThread(id int, role string) *Logger {
	return &Logger{Logger: l.Logger.With("thread", id, "role", role)}
}

// WithState tags records with the harness state.
func (l *Logger) WithState(state fmt.Stringer) *Logger {
	return &Logger{Logger: l.Logger.With("state", state.String())}
}

// LogTransition logs a harness state change.
func (l *Logger) LogTransition(ctx context.Context, from, to fmt.Stringer) {
	l.InfoContext(ctx, "state transition",
		"from", from.String(),
		"to", to.String(),
	)
}

// LogRebuild logs an index rebuild.
func (l *Logger) LogRebuild(ctx context.Context, entries int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "rebuild failed",
			"entries", entries,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "rebuild completed",
		"entries", entries,
		"duration", d,
	)
}

// LogPin logs the result of pinning a worker to a core. Use it on a logger
// from WithThread.
func (l *Logger) LogPin(ctx context.Context, core int, err error) {
	if err != nil {
		l.WarnContext(ctx, "core pinning failed",
			"core", core,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "worker pinned",
		"core", core,
	)
}

// Printf adapts the logger to printf-style callbacks such as maxprocs.Logger.
func (l *Logger) Printf(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}
