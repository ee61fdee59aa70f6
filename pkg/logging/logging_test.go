package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"invalid", InfoLevel}, // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %v\nline: %s", err, line)
	}
	return m
}

func TestJSONLoggerWritesOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel)

	log.Info("first", String("k", "v"))
	log.Warn("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	first := decodeLine(t, lines[0])
	if first["msg"] != "first" || first["level"] != "INFO" {
		t.Errorf("unexpected first entry: %v", first)
	}
	fields, ok := first["fields"].(map[string]any)
	if !ok || fields["k"] != "v" {
		t.Errorf("missing field k=v: %v", first)
	}

	second := decodeLine(t, lines[1])
	if second["level"] != "WARN" {
		t.Errorf("unexpected second level: %v", second["level"])
	}
}

func TestJSONLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, WarnLevel)

	log.Debug("dropped")
	log.Info("dropped too")
	log.Error("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("below-level entries were written: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("error entry missing: %s", out)
	}
}

func TestJSONLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, ErrorLevel)

	log.Info("before")
	log.SetLevel(DebugLevel)
	log.Debug("after")

	if strings.Contains(buf.String(), "before") {
		t.Error("entry written before level change")
	}
	if !strings.Contains(buf.String(), "after") {
		t.Error("entry missing after level change")
	}
}

func TestWithCreatesIndependentChild(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, InfoLevel)
	child := parent.With(Component("planner"), RequestID("r-1"))

	child.Info("child line")
	parent.Info("parent line")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	childEntry := decodeLine(t, lines[0])
	fields, _ := childEntry["fields"].(map[string]any)
	if fields["component"] != "planner" || fields["request_id"] != "r-1" {
		t.Errorf("child fields missing: %v", childEntry)
	}

	parentEntry := decodeLine(t, lines[1])
	if _, ok := parentEntry["fields"]; ok {
		t.Errorf("parent inherited child fields: %v", parentEntry)
	}
}

func TestCallSiteFieldsOverrideWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel).With(String("k", "base"))

	log.Info("msg", String("k", "override"))

	entry := decodeLine(t, strings.TrimSpace(buf.String()))
	fields, _ := entry["fields"].(map[string]any)
	if fields["k"] != "override" {
		t.Errorf("expected call-site field to win, got %v", fields["k"])
	}
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("s", "v"), "s", "v"},
		{"Int", Int("i", 7), "i", 7},
		{"Float64", Float64("f", 1.5), "f", 1.5},
		{"Bool", Bool("b", true), "b", true},
		{"Duration", Duration("d", 2 * time.Second), "d", "2s"},
		{"Error", Error(errors.New("boom")), "error", "boom"},
		{"NilError", Error(nil), "error", nil},
		{"NodeCount", NodeCount(3), "nodes", 3},
		{"EdgeCount", EdgeCount(4), "edges", 4},
		{"SolveStatus", SolveStatus("optimal"), "status", "optimal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("key = %v, want %v", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

func TestNopDiscardsEverything(t *testing.T) {
	log := Nop()
	log.Error("into the void", String("k", "v")) // must not panic
}
