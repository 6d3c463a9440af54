package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON lines when configured (the
// production default), text otherwise. Every record carries the emitting
// source and a service attribute so the ledger's lines stay attributable
// in a shared log stream.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "octane-ledger"))
}
