package uniqstat

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with uniqstat specific helpers so that the CLI and the
// ingestion layer log with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, a text handler writing to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that writes human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON logs to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// LogIngest logs the outcome of loading items from a source.
func (l *Logger) LogIngest(ctx context.Context, source string, items int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ingest failed",
			"source", source,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "ingest completed",
		"source", source,
		"items", items,
	)
}

// LogClassification logs a single membership classification.
func (l *Logger) LogClassification(ctx context.Context, item, status string) {
	l.DebugContext(ctx, "item classified",
		"item_len", len(item),
		"status", status,
	)
}

// LogComparison logs an exact versus estimated distinct count.
func (l *Logger) LogComparison(ctx context.Context, exact uint64, estimate float64, exactElapsed, estimateElapsed time.Duration) {
	l.InfoContext(ctx, "distinct count compared",
		"exact", exact,
		"estimate", estimate,
		"exact_elapsed", exactElapsed,
		"estimate_elapsed", estimateElapsed,
	)
}
