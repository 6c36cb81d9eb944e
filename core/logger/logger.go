package logger

import (
	"log/slog"
	"os"
)

var log *slog.Logger

// Init configures the package logger. JSON output in production,
// text everywhere else. Level comes from LOG_LEVEL (default info).
// Reconfigures on every call: log lines emitted before config is loaded
// self-initialize from APP_ENV, and the post-config Init must win.
func Init(env string) {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if env == "production" {
		log = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		log = slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
}

func get() *slog.Logger {
	if log == nil {
		Init(os.Getenv("APP_ENV"))
	}
	return log
}

// normalize tolerates call sites that pass a bare error (or any single
// value) instead of key/value pairs.
func normalize(args []any) []any {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []any{"error", err}
		}
		return []any{"detail", args[0]}
	}
	return args
}

func Debug(msg string, args ...any) {
	get().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	get().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	get().Error(msg, normalize(args)...)
}
