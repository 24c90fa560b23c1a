package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("json", slog.LevelInfo, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() error = %v", err)
	}
	ctx := context.Background()
	l.With("route", "GET /healthz").Info(ctx, "HTTP:GET /healthz/S", "operator", "alice")
	l.Debug(ctx, "hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if rec["msg"] != "HTTP:GET /healthz/S" || rec["route"] != "GET /healthz" || rec["operator"] != "alice" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNewWithWriter_UnsupportedFormat(t *testing.T) {
	if _, err := NewWithWriter("xml", slog.LevelInfo, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("text", slog.LevelDebug, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() error = %v", err)
	}
	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Debugf(ctx, "volume %s", "proj-data")
	if !strings.Contains(buf.String(), "volume proj-data") {
		t.Errorf("logger from context did not write: %q", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext without logger returned nil")
	}
}

func TestSpan(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("json", slog.LevelInfo, &buf)
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithLogger(context.Background(), l)

	ctx, end := Span(ctx, "CMD", "admin.volume.delete", "resourceId", "proj-data")
	FromContext(ctx).Info(ctx, "inside")
	end(errors.New("volume not found: proj-data and a long tail of detail"), "status", 404)

	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		lines = append(lines, rec)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0]["msg"] != "CMD:admin.volume.delete/S" {
		t.Errorf("start msg = %v", lines[0]["msg"])
	}
	if lines[1]["resourceId"] != "proj-data" {
		t.Errorf("inner line lost span attributes: %v", lines[1])
	}
	last := lines[2]
	if last["msg"] != "CMD:admin.volume.delete/EFAIL" || last["status"] != float64(404) {
		t.Errorf("end line = %v", last)
	}
	if s, _ := last["err"].(string); !strings.HasSuffix(s, "...") || len(s) != maxSpanErr+3 {
		t.Errorf("err not truncated: %q", s)
	}

	buf.Reset()
	_, end = Span(WithLogger(context.Background(), l), "HTTP", "GET /healthz")
	end(nil)
	if !strings.Contains(buf.String(), `"msg":"HTTP:GET /healthz/EOK"`) {
		t.Errorf("missing EOK line: %s", buf.String())
	}
}
