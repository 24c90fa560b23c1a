package logging

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC), "volsaga-20240102-030405-678.log"},
		{time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), "volsaga-20241231-235959-000.log"},
		{time.Date(2024, 1, 2, 9, 0, 0, 5_000_000, time.FixedZone("JST", 9*3600)), "volsaga-20240102-000000-005.log"},
	}
	for _, tt := range tests {
		if got := FileName(tt.in); got != tt.want {
			t.Errorf("FileName(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenOutput_Special(t *testing.T) {
	dir := t.TempDir()

	out, err := OpenOutput("none", dir, time.Now())
	if err != nil {
		t.Fatalf("OpenOutput(none) error = %v", err)
	}
	if out.Writer() != io.Discard || out.Path != "" {
		t.Errorf("none: writer=%v path=%q", out.Writer(), out.Path)
	}

	out, err = OpenOutput("-", dir, time.Now())
	if err != nil {
		t.Fatalf("OpenOutput(-) error = %v", err)
	}
	if out.Writer() != os.Stderr {
		t.Error("- did not select stderr")
	}
	if err := out.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("special outputs created files: %v", entries)
	}
}

func TestOpenOutput_Generated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	out, err := OpenOutput("", dir, now)
	if err != nil {
		t.Fatalf("OpenOutput() error = %v", err)
	}
	defer out.Close()

	want := filepath.Join(dir, "volsaga-20240506-070809-000.log")
	if out.Path != want {
		t.Errorf("Path = %q, want %q", out.Path, want)
	}
	if _, err := io.WriteString(out.Writer(), "line\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("log file missing: %v", err)
	}
}

func TestOpenOutput_Path(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "nested", "abs.log")

	tests := []struct {
		dest string
		want string
	}{
		{"serve.log", filepath.Join(dir, "serve.log")},
		{"sub/serve.log", filepath.Join(dir, "sub", "serve.log")},
		{abs, abs},
	}
	for _, tt := range tests {
		out, err := OpenOutput(tt.dest, dir, time.Now())
		if err != nil {
			t.Fatalf("OpenOutput(%q) error = %v", tt.dest, err)
		}
		if out.Path != tt.want {
			t.Errorf("OpenOutput(%q).Path = %q, want %q", tt.dest, out.Path, tt.want)
		}
		out.Close()
	}

	var nilOut *Output
	if err := nilOut.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	files := map[string]time.Time{
		"volsaga-20240101-000000-000.log": now.AddDate(0, 0, -30),
		"volsaga-20240609-000000-000.log": now.AddDate(0, 0, -1),
		"other-20240101-000000-000.log":   now.AddDate(0, 0, -30),
		"volsaga-old.txt":                 now.AddDate(0, 0, -30),
	}
	for name, mt := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(p, mt, mt); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "volsaga-dir.log"), 0o755); err != nil {
		t.Fatal(err)
	}

	removed, err := Prune(dir, 7, now)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if !slices.Equal(removed, []string{"volsaga-20240101-000000-000.log"}) {
		t.Errorf("removed = %v", removed)
	}
	left, _ := os.ReadDir(dir)
	if len(left) != 4 {
		t.Errorf("%d entries left, want 4", len(left))
	}
}

func TestPrune_NoOp(t *testing.T) {
	if removed, err := Prune(filepath.Join(t.TempDir(), "missing"), 7, time.Now()); err != nil || removed != nil {
		t.Errorf("missing dir: removed=%v err=%v", removed, err)
	}
	dir := t.TempDir()
	p := filepath.Join(dir, "volsaga-20000101-000000-000.log")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().AddDate(-1, 0, 0)
	_ = os.Chtimes(p, old, old)
	if removed, _ := Prune(dir, 0, time.Now()); removed != nil {
		t.Errorf("zero retention removed %v", removed)
	}
}
