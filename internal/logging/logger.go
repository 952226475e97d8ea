package logging

import (
	"io"
	"log/slog"
	"os"
)

var stderr io.Writer = os.Stderr

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// AttachDB makes the default logger fan out to stdout and the system_logs
// sink. The sink must be stopped on shutdown.
func AttachDB(sink *DBHandler) {
	slog.SetDefault(slog.New(NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		sink,
	)))
}
