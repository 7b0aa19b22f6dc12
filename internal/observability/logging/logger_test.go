package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTextLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTextLogger(&buf, "warn")
	logger.Info("resume_initialized", "chunks", 3)
	logger.Warn("resume_cache_write_failed", "key", "k")

	out := buf.String()
	if strings.Contains(out, "resume_initialized") {
		t.Fatalf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, "resume_cache_write_failed") || !strings.Contains(out, "key=k") {
		t.Fatalf("expected warn record, got %s", out)
	}
}

func TestJSONLoggerTagsService(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "mcp", "json", "info").Info("resume_initialized", "chunks", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected a JSON record, got %q: %v", buf.String(), err)
	}
	if record["service"] != "mcp" || record["msg"] != "resume_initialized" {
		t.Fatalf("unexpected record %v", record)
	}
}
