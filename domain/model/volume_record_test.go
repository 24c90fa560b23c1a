package model

import (
	"errors"
	"testing"
)

func TestVolumeRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rec     VolumeRecord
		wantErr bool
	}{
		{"minimal", VolumeRecord{VolumeName: "v", ZfsDataset: "tank/v"}, false},
		{"with json", VolumeRecord{VolumeName: "v", ZfsDataset: "tank/v", Labels: `{"a":1}`, Options: `{}`}, false},
		{"missing name", VolumeRecord{ZfsDataset: "tank/v"}, true},
		{"missing dataset", VolumeRecord{VolumeName: "v"}, true},
		{"broken labels", VolumeRecord{VolumeName: "v", ZfsDataset: "tank/v", Labels: `{"a":`}, true},
		{"broken options", VolumeRecord{VolumeName: "v", ZfsDataset: "tank/v", Options: `nope`}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() error = %v, should wrap ErrValidation", err)
			}
		})
	}
}

func TestVolumeRecord_CaptureAndRestore(t *testing.T) {
	v := &Volume{
		Name:    "orig",
		Driver:  "zfs",
		Options: Options{"recordsize": "1M"},
		Labels: VolumeLabels{
			VolumeTypeEnum: "dataset",
			UserID:         "42",
			ZfsDataset:     "tank/42/orig",
			Alias:          "Original",
			Extra:          map[string]any{"team": "infra"},
		},
	}
	rec, err := NewVolumeRecord(v)
	if err != nil {
		t.Fatalf("NewVolumeRecord() error = %v", err)
	}
	if rec.VolumeName != "orig" || rec.ZfsDataset != "tank/42/orig" || rec.Driver != "zfs" {
		t.Errorf("record = %+v", rec)
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	restored, err := rec.ToVolume("")
	if err != nil {
		t.Fatalf("ToVolume() error = %v", err)
	}
	if restored.Name != "orig" || restored.Labels.Alias != "Original" || restored.Labels.Extra["team"] != "infra" {
		t.Errorf("restored = %+v", restored)
	}
	if restored.Options["recordsize"] != "1M" {
		t.Errorf("options = %v", restored.Options)
	}

	renamed, err := rec.ToVolume("copy")
	if err != nil {
		t.Fatalf("ToVolume(copy) error = %v", err)
	}
	if renamed.Name != "copy" || renamed.Labels.ZfsDataset != "tank/42/orig" {
		t.Errorf("renamed = %+v", renamed)
	}
}

func TestVolumeRecord_ToVolumeDefaultsDriver(t *testing.T) {
	rec := &VolumeRecord{VolumeName: "v", ZfsDataset: "tank/v"}
	v, err := rec.ToVolume("")
	if err != nil {
		t.Fatalf("ToVolume() error = %v", err)
	}
	if v.Driver != DefaultVolumeDriver || v.Labels.ZfsDataset != "tank/v" {
		t.Errorf("ToVolume() = %+v", v)
	}
}
