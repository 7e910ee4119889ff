// Package logger holds the process-wide structured logger. Packages log
// through logger.Log instead of threading a logger through every
// constructor.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Log is safe to use before Initialize: init installs a text handler at
// info level so tests and tools get sensible output without setup.
var Log *slog.Logger

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

func init() {
	Initialize("info", false)
}

// Initialize replaces the global logger. useJSON selects the JSON handler
// for log collectors; the text handler stays the default for local runs.
// An unknown level falls back to info.
func Initialize(level string, useJSON bool) {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: true,
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if useJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}
