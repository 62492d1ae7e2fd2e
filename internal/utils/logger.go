package utils

import (
	"io"
	"log/slog"
	"strings"
)

// SetupLogger installs a JSON slog handler as the process default.
func SetupLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	l := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(l)
	return l
}

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	slog.Info(message,
		"module", strings.ToLower(module),
		"action", action,
		"request_id", strings.TrimSpace(requestID),
	)
}

// LogError is LogEvent at error level with the cause attached.
func LogError(requestID, module, action string, err error) {
	slog.Error(action+" failed",
		"module", strings.ToLower(module),
		"action", action,
		"request_id", strings.TrimSpace(requestID),
		"err", err,
	)
}
