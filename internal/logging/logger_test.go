package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, m)
	}
	return entries
}

func TestZerologAdapter_Fields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")
	logger.Info("generated",
		String("format", "json"),
		Int("batch", 3),
		Int64("x", -2),
		Uint64("count", 25),
		Float64("progress", 0.5),
		Field{Key: "quiet", Value: true},
		Field{Key: "other", Value: []int{1}},
	)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e["component"] != "test" {
		t.Errorf("component = %v, want test", e["component"])
	}
	if e["message"] != "generated" {
		t.Errorf("message = %v, want generated", e["message"])
	}
	if e["format"] != "json" || e["batch"] != float64(3) || e["x"] != float64(-2) ||
		e["count"] != float64(25) || e["progress"] != 0.5 || e["quiet"] != true {
		t.Errorf("unexpected fields: %v", e)
	}
	if _, ok := e["time"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestZerologAdapter_ErrorAndCompat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, "server")
	logger.Error("write failed", errors.New("disk full"), Err(errors.New("inner")))
	logger.Printf("listening on %s", ":8080")
	logger.Println("server", "stopped")

	entries := decodeLines(t, &buf)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0]["level"] != "error" {
		t.Errorf("level = %v, want error", entries[0]["level"])
	}
	if entries[1]["message"] != "listening on :8080" {
		t.Errorf("Printf message = %v", entries[1]["message"])
	}
	if entries[2]["message"] != "server stopped" {
		t.Errorf("Println message = %q", entries[2]["message"])
	}
}

func TestNewLeveledLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLeveledLogger(&buf, "app", "warn")
	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Error("shown", errors.New("boom"))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected only the error entry, got %d", len(entries))
	}

	buf.Reset()
	NewLeveledLogger(&buf, "app", "not-a-level").Info("fallback")
	if len(decodeLines(t, &buf)) != 1 {
		t.Error("unparseable level should fall back to info")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"bogus", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewStdLoggerAdapter(stdlog.New(&buf, "", 0))
	logger.Info("plain")
	logger.Info("with", String("k", "v"))
	logger.Error("failed", errors.New("boom"))
	logger.Debug("dbg")
	logger.Printf("n=%d", 4)
	logger.Println("done")

	out := buf.String()
	for _, want := range []string{"[INFO] plain", "[INFO] with k=v", "[ERROR] failed: boom", "[DEBUG] dbg", "n=4", "done"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewConsoleLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "info", true)
	logger.Debug("hidden")
	logger.Info("generation complete", Uint64("count", 25))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry should be filtered: %q", out)
	}
	if !strings.Contains(out, "INF") || !strings.Contains(out, "generation complete") || !strings.Contains(out, "count=25") {
		t.Errorf("unexpected console output: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("noColor output should not contain escape codes: %q", out)
	}
}
