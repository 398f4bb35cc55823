// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Configures the default logger for CLI (stderr) or TUI (log file) use.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options selects level, format and destination.
// An empty File writes to stderr.
type Options struct {
	Level  string // debug, info, warn, error (default: info)
	Format string // text, json (default: text)
	File   string
}

// Init configures the default slog logger. The returned closer releases
// the log file when one was opened; it is always non-nil.
func Init(opts Options) (io.Closer, error) {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
			return closer, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return closer, err
		}
		out = f
		closer = f
	}

	slog.SetDefault(slog.New(newHandler(out, opts.Format, handlerOpts)))
	return closer, nil
}

// Discard routes all logging to io.Discard
func Discard() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
