// Package log sets up the process wide slog logger and carries
// loggers through contexts.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey string

const loggerCtxKey ctxKey = "logger"

// Debug switches the default logger to debug level. It has to be set
// before InitializeDefaultLogger is called.
var Debug bool

func level() slog.Level {
	if Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func InitializeDefaultLogger() {
	SetDefaultOutput(os.Stdout)
}

// SetDefaultOutput replaces the default logger with one writing to w,
// eg. when the terminal is taken over by the dashboard.
func SetDefaultOutput(w io.Writer) {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level()}))
	slog.SetDefault(logger)
}

func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
