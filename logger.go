package main

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a structured slog.Logger with the given level. When
// logFile is set, records are also appended to a size-rotated file.
func NewLogger(level slog.Leveler, logFile string) *slog.Logger {
	var w io.Writer = os.Stdout
	if logFile != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
