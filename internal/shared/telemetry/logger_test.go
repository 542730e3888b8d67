package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestErrorLineShape(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	Error("notify.failed", map[string]any{
		"template":       "interview_scheduled",
		"application_id": "app-1",
		"error":          errors.New("smtp down"),
	})

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	if payload["level"] != "error" {
		t.Fatalf("expected level=error, got %v", payload["level"])
	}
	if payload["msg"] != "notify.failed" {
		t.Fatalf("unexpected msg %v", payload["msg"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts field")
	}
	if payload["error"] != "smtp down" {
		t.Fatalf("expected error string, got %v", payload["error"])
	}
	if payload["application_id"] != "app-1" {
		t.Fatalf("unexpected application_id %v", payload["application_id"])
	}
}
