package naming

import (
	"strings"
	"testing"
	"time"
)

func TestNewCompactID(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := NewCompactID()
		if err != nil {
			t.Fatalf("NewCompactID failed: %v", err)
		}
		if len(id) != 12 {
			t.Fatalf("expected ID length 12, got %d for ID: %s", len(id), id)
		}
		if ids[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		ids[id] = true
		for _, char := range id {
			if !((char >= '0' && char <= '9') || (char >= 'a' && char <= 'z')) {
				t.Fatalf("invalid character in ID %s: %c", id, char)
			}
		}
	}
}

func TestCompactIDTimeOrdered(t *testing.T) {
	a, err := compactIDAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	b, err := compactIDAt(time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if a[:7] >= b[:7] {
		t.Fatalf("timestamp part not ordered: %s >= %s", a[:7], b[:7])
	}
	if _, err := compactIDAt(time.Unix(-1, 0)); err == nil {
		t.Fatal("expected error for negative timestamp")
	}
}

func TestNewVolumeName(t *testing.T) {
	tests := []struct {
		volumeType string
		prefix     string
	}{
		{"USER", "user-"},
		{"Shared Data", "shareddata-"},
		{"", "vol-"},
		{"--", "vol-"},
	}
	for _, tt := range tests {
		t.Run(tt.volumeType, func(t *testing.T) {
			name, err := NewVolumeName(tt.volumeType)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(name, tt.prefix) {
				t.Errorf("NewVolumeName(%q) = %q, want prefix %q", tt.volumeType, name, tt.prefix)
			}
			if err := ValidateVolumeName(name); err != nil {
				t.Errorf("generated name %q is invalid: %v", name, err)
			}
		})
	}
}

func TestNewID(t *testing.T) {
	id := NewID(VolumeRecordIDPrefix)
	if !strings.HasPrefix(id, "vr-") || len(id) != len("vr-")+36 {
		t.Fatalf("unexpected id %q", id)
	}
	if id == NewID(VolumeRecordIDPrefix) {
		t.Fatal("ids should differ")
	}
}

func TestDatasetPath(t *testing.T) {
	got := DatasetPath("tank/docker/volumes", "u42", "user-abc")
	if got != "tank/docker/volumes/u42/user-abc" {
		t.Fatalf("DatasetPath() = %q", got)
	}
}
