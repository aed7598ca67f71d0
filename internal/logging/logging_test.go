package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSON_ErrorIncludesStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf, slog.LevelInfo)

	logger.Error("boom", "id", "c1")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if rec["id"] != "c1" {
		t.Errorf("expected id attr, got %v", rec["id"])
	}
	if s, _ := rec["stacktrace"].(string); !strings.Contains(s, "goroutine") {
		t.Errorf("expected stacktrace attr, got %v", rec["stacktrace"])
	}
}

func TestNewJSON_InfoHasNoStacktrace(t *testing.T) {
	var buf bytes.Buffer
	NewJSON(&buf, slog.LevelInfo).With("component", "test").Info("hello")

	if strings.Contains(buf.String(), "stacktrace") {
		t.Errorf("info records should not carry a stacktrace: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"component":"test"`) {
		t.Errorf("expected attrs preserved through WithAttrs: %s", buf.String())
	}
}

func TestNewCLI_Levels(t *testing.T) {
	var buf bytes.Buffer
	NewCLI(&buf, false).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be hidden without verbose: %q", buf.String())
	}
	NewCLI(&buf, true).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug should be shown with verbose: %q", buf.String())
	}
}
