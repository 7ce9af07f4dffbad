package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("log line is not valid JSON: %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug message", nil)
	l.Info("info message", nil)
	l.Warn("warn message", nil)
	l.Error("error message", nil, errors.New("boom"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries at warn level, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("unexpected levels: %s, %s", entries[0].Level, entries[1].Level)
	}
}

func TestStructuredFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, &buf)

	l.Info("workbook written", Fields{"rows": 12, "path": "data/gls.xlsx"})
	l.Error("fetch failed", Fields{"url": "https://example.com"}, errors.New("status 500"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if entries[0].Fields["path"] != "data/gls.xlsx" {
		t.Errorf("missing field, got %v", entries[0].Fields)
	}
	if entries[0].Timestamp == "" {
		t.Error("entry missing timestamp")
	}
	if entries[1].Error != "status 500" {
		t.Errorf("expected error string, got %q", entries[1].Error)
	}
}

func TestNewWithFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gls-tracker.log")

	for i := 0; i < 2; i++ {
		l, err := NewWithFile(LevelInfo, path)
		if err != nil {
			t.Fatalf("NewWithFile failed: %v", err)
		}
		l.Info("run started", nil)
		if err := l.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Errorf("expected entries from both runs, got %d lines", len(lines))
	}
}

func TestCounters(t *testing.T) {
	c := NewCounters()
	c.Incr("fetch.requests")
	c.Incr("fetch.requests")
	c.Add("listing.rows_skipped", 3)

	snap := c.Snapshot()
	if snap["fetch.requests"] != 2 {
		t.Errorf("expected 2 requests, got %d", snap["fetch.requests"])
	}
	if snap["listing.rows_skipped"] != 3 {
		t.Errorf("expected 3 skipped, got %d", snap["listing.rows_skipped"])
	}

	// Snapshot is a copy, not a live view.
	snap["fetch.requests"] = 99
	if c.Snapshot()["fetch.requests"] != 2 {
		t.Error("mutating a snapshot must not affect the counter set")
	}
}
