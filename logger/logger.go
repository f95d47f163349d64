// Package logger configures the process-wide structured logger.
// All output is JSON on stdout so log collectors need no parsing rules.
package logger

import (
	"log/slog"
	"os"
)

// Init installs the JSON handler as the slog default and returns it.
func Init() *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(log)
	return log
}

// Fatal logs the message and terminates the process. Only for
// unrecoverable startup failures.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
