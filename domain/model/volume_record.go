package model

import (
	"cmp"
	"encoding/json"
	"fmt"
)

// VolumeRecord is a Recovery Ledger entry for a removed volume. Labels and
// Options hold the JSON text captured at delete time and are never
// re-encoded, so a restore sees exactly what was removed.
type VolumeRecord struct {
	ID         string `json:"id"`
	VolumeName string `json:"volumeName"`
	ZfsDataset string `json:"zfsDataset"`
	Driver     string `json:"driver"`
	Labels     string `json:"labels"`
	Options    string `json:"options"`
	Remark     string `json:"remark"`
	Audit
}

func (r *VolumeRecord) Clone() *VolumeRecord {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// Validate checks the fields a restore depends on.
func (r *VolumeRecord) Validate() error {
	if r.VolumeName == "" {
		return fmt.Errorf("%w: volumeName is required", ErrVolumeRecordInvalid)
	}
	if r.ZfsDataset == "" {
		return fmt.Errorf("%w: zfsDataset is required", ErrVolumeRecordInvalid)
	}
	if r.Labels != "" && !json.Valid([]byte(r.Labels)) {
		return fmt.Errorf("%w: labels is not valid JSON", ErrVolumeRecordInvalid)
	}
	if r.Options != "" && !json.Valid([]byte(r.Options)) {
		return fmt.Errorf("%w: options is not valid JSON", ErrVolumeRecordInvalid)
	}
	return nil
}

// NewVolumeRecord captures v for the ledger.
func NewVolumeRecord(v *Volume) (*VolumeRecord, error) {
	labels, err := json.Marshal(v.Labels)
	if err != nil {
		return nil, fmt.Errorf("encode labels of %s: %w", v.Name, err)
	}
	rec := &VolumeRecord{
		VolumeName: v.Name,
		ZfsDataset: v.Labels.ZfsDataset,
		Driver:     v.Driver,
		Labels:     string(labels),
	}
	if len(v.Options) > 0 {
		opts, err := json.Marshal(v.Options)
		if err != nil {
			return nil, fmt.Errorf("encode options of %s: %w", v.Name, err)
		}
		rec.Options = string(opts)
	}
	return rec, nil
}

// ToVolume decodes the preserved metadata into a live volume named name.
// The dataset label always follows the record's ZfsDataset.
func (r *VolumeRecord) ToVolume(name string) (*Volume, error) {
	v := &Volume{Name: name, Driver: r.Driver}
	if v.Name == "" {
		v.Name = r.VolumeName
	}
	if v.Driver == "" {
		v.Driver = DefaultVolumeDriver
	}
	if r.Labels != "" {
		if err := json.Unmarshal([]byte(r.Labels), &v.Labels); err != nil {
			return nil, fmt.Errorf("%w: decode labels: %v", ErrVolumeRecordInvalid, err)
		}
	}
	if r.Options != "" {
		if err := json.Unmarshal([]byte(r.Options), &v.Options); err != nil {
			return nil, fmt.Errorf("%w: decode options: %v", ErrVolumeRecordInvalid, err)
		}
	}
	v.Labels.ZfsDataset = r.ZfsDataset
	return v, nil
}

// VolumeRecordQuery selects ledger entries.
type VolumeRecordQuery struct {
	VolumeName string // case-insensitive substring
	Page       PageRequest
}

var VolumeRecordSortFields = []string{"volumeName", "driver", "createTime", "updateTime"}

func (q VolumeRecordQuery) Matches(r *VolumeRecord) bool {
	return q.VolumeName == "" || containsFold(r.VolumeName, q.VolumeName)
}

func CompareVolumeRecords(field string) func(a, b *VolumeRecord) int {
	return func(a, b *VolumeRecord) int {
		var c int
		switch field {
		case "volumeName":
			c = cmp.Compare(a.VolumeName, b.VolumeName)
		case "driver":
			c = cmp.Compare(a.Driver, b.Driver)
		case "updateTime":
			c = a.UpdateTime.Compare(b.UpdateTime)
		}
		if c != 0 {
			return c
		}
		if c = a.CreateTime.Compare(b.CreateTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
}
