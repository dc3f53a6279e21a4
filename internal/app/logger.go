package app

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

var slogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger creates an isolated slog.Logger tagged with a fresh
// invocation_id. It does not touch the global logger.
func newLogger(levelStr, formatStr string, logW io.Writer) (*slog.Logger, string) {
	level, ok := slogLevels[levelStr]
	if !ok {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(logW, opts)
	} else {
		handler = slog.NewTextHandler(logW, opts)
	}

	invocationID := uuid.NewString()
	return slog.New(handler).With("invocation_id", invocationID), invocationID
}
