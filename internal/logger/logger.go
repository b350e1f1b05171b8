// Package logger provides slog helpers for the app.
package logger

import (
	"log/slog"
	"os"

	"github.com/handsomefox/movie-sentiment/internal/env"
)

// New logs JSON with source locations in production and plain text
// locally.
func New(level slog.Level) *slog.Logger {
	if env.Current == env.Production {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "nil")
	}
	return slog.String("err", err.Error())
}
