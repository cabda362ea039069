// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// newLogger returns a logger writing text records at the verbosity level to
// w and, when logFile is set, every record as JSON to that file.
func newLogger(w io.Writer, verbose int, logFile string) (*slog.Logger, func() error, error) {
	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: verbosityLevel(verbose)}),
	}
	closeFn := func() error { return nil }
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // user-specified log path
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closeFn = f.Close
	}
	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}

// verbosityLevel maps the number of -v flags to a level.
func verbosityLevel(n int) slog.Level {
	switch {
	case n >= 2:
		return slog.LevelDebug
	case n == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}
