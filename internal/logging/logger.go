package logging

import (
	"io"
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Setup initializes the global slog logger with JSON output to stdout.
// Development mode lowers the level to DEBUG.
func Setup(development bool) {
	slog.SetDefault(slog.New(newJSONHandler(os.Stdout, development)))
}

// AttachDatabase makes ERROR+ records also land in the system_logs table.
// The returned handler must be stopped on shutdown to flush its buffer.
func AttachDatabase(db *gorm.DB, development bool) *DBHandler {
	dbHandler := NewDBHandler(db, slog.New(newJSONHandler(os.Stderr, development)))
	slog.SetDefault(slog.New(NewMultiHandler(
		newJSONHandler(os.Stdout, development),
		dbHandler,
	)))
	return dbHandler
}

func newJSONHandler(w io.Writer, development bool) slog.Handler {
	level := slog.LevelInfo
	if development {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
