package datatable

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with datatable-specific context.
// This provides structured logging with consistent field names.
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
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithColumn adds a column field to the logger.
func (l *Logger) WithColumn(col string) *Logger {
	return &Logger{
		Logger: l.Logger.With("column", col),
	}
}

// WithRowCount adds a row count field to the logger.
func (l *Logger) WithRowCount(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", n),
	}
}

// LogMutation logs a table mutation at debug level.
func (l *Logger) LogMutation(op string, rows, cols int) {
	l.Debug("table mutated",
		"op", op,
		"rows", rows,
		"columns", cols,
	)
}

// LogSnapshot logs a snapshot write/read.
func (l *Logger) LogSnapshot(op, codec, compression string, err error) {
	if err != nil {
		l.Error("snapshot failed",
			"op", op,
			"codec", codec,
			"compression", compression,
			"error", err,
		)
	} else {
		l.Info("snapshot completed",
			"op", op,
			"codec", codec,
			"compression", compression,
		)
	}
}
