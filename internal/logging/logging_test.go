package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]charmlog.Level{
		"debug":    charmlog.DebugLevel,
		"TRACE":    charmlog.DebugLevel,
		"info":     charmlog.InfoLevel,
		"warning":  charmlog.WarnLevel,
		" warn ":   charmlog.WarnLevel,
		"error":    charmlog.ErrorLevel,
		"critical": charmlog.FatalLevel,
		"bogus":    charmlog.InfoLevel,
		"":         charmlog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")
	logger.Info("hidden")
	logger.Warn("shown", "candidate", "http://twingly.com/")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "http://twingly.com/") {
		t.Fatalf("warn message missing: %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, "info", "json").Info("hello", "count", 2)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "hello" {
		t.Fatalf("unexpected entry %v", entry)
	}
}
