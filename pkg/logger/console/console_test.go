package console

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestConsoleLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Output: &buf})

	l.Info("[Ingest] report stored", "team", "Los Primos")
	l.Debug("hidden at info level")

	out := buf.String()
	if !strings.Contains(out, "report stored") || !strings.Contains(out, "Los Primos") {
		t.Fatalf("expected message and value in output, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered, got %q", out)
	}
}

func TestConsoleLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Output: &buf, Format: "json", Debug: true})

	l.Debug("query rejected", "reason", "SELECT")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "query rejected" {
		t.Fatalf("unexpected msg field: %v", line["msg"])
	}
	if line["reason"] != "SELECT" {
		t.Fatalf("unexpected reason field: %v", line["reason"])
	}
}
