// Package logging builds the loggers used by the binder and the demo
// CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a configured application logger writing to w. It
// standardizes common keys (e.g. "error" -> "err") so binder log lines
// stay greppable across packages.
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
