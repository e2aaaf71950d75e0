package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ogurasousui/hr-records/internal/platform/config"
)

func TestNew_WritesJSONAtLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, closer, err := New(config.LogConfig{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()

	l.Info().Msg("hidden")
	l.Warn().Str("method", "/hr.v1.EmployeeService/AddEmployee").Msg("slow call")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "warn" || entry["message"] != "slow call" || entry["time"] == nil {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNew_AlsoWritesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	l, closer, err := New(config.LogConfig{Level: "info", File: path}, &buf)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	l.Info().Msg("to both")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if !strings.Contains(string(content), "to both") || !strings.Contains(buf.String(), "to both") {
		t.Fatalf("expected message in both outputs")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	if _, _, err := New(config.LogConfig{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, _, err := New(config.LogConfig{Level: "info"}, &buf)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info().Msg("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Fatalf("expected logger stored in context to be used")
	}

	if FromContext(context.Background()) == nil {
		t.Fatalf("expected fallback logger")
	}
}
