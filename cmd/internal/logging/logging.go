package logging

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logging sets up the default logger and registers the -log-level flag. The returned
// func exits the process, with status 1 if anything was logged at error level.
func Logging() (exit func()) {
	var level slog.LevelVar
	flag.TextVar(&level, "log-level", &level, "Set the logging level")

	tracker := newErrorTracker(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level}))
	slog.SetDefault(slog.New(tracker))
	slog.SetLogLoggerLevel(slog.LevelError)

	return func() {
		os.Exit(tracker.exitCode())
	}
}

// errorTracker remembers whether an error was logged through it or any logger derived
// from it with With or WithGroup.
type errorTracker struct {
	slog.Handler
	hadError *atomic.Bool
}

func newErrorTracker(h slog.Handler) *errorTracker {
	return &errorTracker{Handler: h, hadError: new(atomic.Bool)}
}

func (et *errorTracker) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		et.hadError.Store(true)
	}
	return et.Handler.Handle(ctx, r)
}

func (et *errorTracker) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorTracker{Handler: et.Handler.WithAttrs(attrs), hadError: et.hadError}
}

func (et *errorTracker) WithGroup(name string) slog.Handler {
	return &errorTracker{Handler: et.Handler.WithGroup(name), hadError: et.hadError}
}

func (et *errorTracker) exitCode() int {
	if et.hadError.Load() {
		return 1
	}
	return 0
}
