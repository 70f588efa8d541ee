package sframe

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/sframe/index"
)

// Logger wraps slog.Logger with sframe-specific context.
// Field names are consistent across all helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBus adds a bus field to the logger.
func (l *Logger) WithBus(name index.Label) *Logger {
	return &Logger{
		Logger: l.Logger.With("bus", index.Format(name)),
	}
}

// WithFrame adds a frame field to the logger.
func (l *Logger) WithFrame(name index.Label) *Logger {
	return &Logger{
		Logger: l.Logger.With("frame", index.Format(name)),
	}
}

// LogLoad logs a frame load from the backing store.
func (l *Logger) LogLoad(ctx context.Context, name index.Label, duration time.Duration, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "frame load failed",
			"frame", index.Format(name),
			"duration", duration,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "frame loaded",
			"frame", index.Format(name),
			"duration", duration,
			"bytes", bytes,
		)
	}
}

// LogEvict logs the eviction of a resident frame.
func (l *Logger) LogEvict(ctx context.Context, name index.Label) {
	l.DebugContext(ctx, "frame evicted",
		"frame", index.Format(name),
	)
}

// LogPersist logs a bus persist.
func (l *Logger) LogPersist(ctx context.Context, frames int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "persist failed",
			"frames", frames,
			"duration", duration,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "bus persisted",
			"frames", frames,
			"duration", duration,
		)
	}
}

// LogOpen logs the opening of a persisted bus.
func (l *Logger) LogOpen(ctx context.Context, prefix string, frames int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"prefix", prefix,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "bus opened",
			"prefix", prefix,
			"frames", frames,
		)
	}
}
