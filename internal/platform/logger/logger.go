package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stdout. Level defaults to info;
// set IDP_LOG_LEVEL=debug to see per-request resolution detail.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("IDP_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
