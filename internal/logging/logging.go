// Package logging builds the slog logger used across urlcanon.
package logging

import (
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// New returns a slog.Logger writing to w through a charmbracelet handler.
// Format is "text" or "json".
func New(w io.Writer, level, format string) *slog.Logger {
	formatter := charmlog.TextFormatter
	if strings.EqualFold(format, "json") {
		formatter = charmlog.JSONFormatter
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
		Formatter:       formatter,
	})
	return slog.New(handler)
}

// ParseLevel maps a level name to a log level. Unknown names fall back to
// info.
func ParseLevel(level string) charmlog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug":
		return charmlog.DebugLevel
	case "info", "notice":
		return charmlog.InfoLevel
	case "warning", "warn":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	case "critical", "alert", "fatal":
		return charmlog.FatalLevel
	default:
		return charmlog.InfoLevel
	}
}
