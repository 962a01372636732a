package logseg

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with consistent field names for store and
// segment operations.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil, a
// text handler to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// DefaultLogger wraps slog.Default().
func DefaultLogger() *Logger {
	return &Logger{Logger: slog.Default()}
}

// NewJSONLogger creates a Logger that emits JSON records to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that emits human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithSegment tags the logger with a segment id.
func (l *Logger) WithSegment(id uuid.UUID) *Logger {
	return &Logger{Logger: l.Logger.With("segment", id.String())}
}

// WithSchema tags the logger with a schema name.
func (l *Logger) WithSchema(name string) *Logger {
	return &Logger{Logger: l.Logger.With("schema", name)}
}

// LogPut logs a segment store operation.
func (l *Logger) LogPut(ctx context.Context, id uuid.UUID, slices, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "segment store failed",
			"segment", id.String(),
			"error", err)
		return
	}
	l.DebugContext(ctx, "segment stored",
		"segment", id.String(),
		"slices", slices,
		"bytes", bytes)
}

// LogLookup logs a lookup operation.
func (l *Logger) LogLookup(ctx context.Context, slices int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "lookup failed", "error", err)
		return
	}
	l.DebugContext(ctx, "lookup completed", "slices", slices)
}

// LogErase logs a segment erasure.
func (l *Logger) LogErase(ctx context.Context, id uuid.UUID, rows uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "erase failed",
			"segment", id.String(),
			"error", err)
		return
	}
	l.InfoContext(ctx, "segment erased",
		"segment", id.String(),
		"rows", rows)
}
