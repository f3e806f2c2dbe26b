package logger

import "log/slog"

// LogModeration logs moderation decisions and actions
func LogModeration(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "mod")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
