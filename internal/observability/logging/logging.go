package logging

import (
	"log/slog"
	"os"
)

// NewLogger builds the default structured logger at the configured level.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// Setup installs the default logger process-wide.
func Setup(level slog.Level) {
	slog.SetDefault(NewLogger(level))
}
