// Package logger builds the log/slog loggers used by heapkit. Output is
// discarded unless explicitly enabled.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// EnvLogAlloc enables allocator debug logging to stderr when set to any
// non-empty value.
const EnvLogAlloc = "HEAPKIT_LOG_ALLOC"

// L is the process-wide default logger. It discards all output until Init
// is called.
var L = Discard()

// Options configures logger construction.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Writer  io.Writer  // Destination. Default: os.Stderr
	Level   slog.Level // Minimum log level. Default: LevelInfo when enabled
	JSON    bool       // Emit JSON records instead of text
}

// New builds a logger from opts.
func New(opts Options) *slog.Logger {
	if !opts.Enabled {
		return Discard()
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := opts.Level
	if level == 0 {
		level = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// Init replaces L. Call from main() before any heap is created.
func Init(opts Options) {
	L = New(opts)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FromEnv returns a debug-level stderr logger when EnvLogAlloc is set and L
// otherwise.
func FromEnv() *slog.Logger {
	if os.Getenv(EnvLogAlloc) == "" {
		return L
	}
	return New(Options{Enabled: true, Level: slog.LevelDebug})
}
