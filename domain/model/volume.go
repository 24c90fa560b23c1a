package model

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultVolumeDriver is used when a volume is created without a driver.
const DefaultVolumeDriver = "local"

// Volume is a live storage volume provisioned for a user.
type Volume struct {
	ID         string       `json:"id"`                   // surrogate identifier, immutable
	Name       string       `json:"name"`                 // unique key, immutable
	Driver     string       `json:"driver"`               // storage backend, immutable
	CreateTime time.Time    `json:"createTime"`           // creation timestamp, immutable
	UpdateTime time.Time    `json:"updateTime"`           // last metadata change
	Mountpoint string       `json:"mountpoint,omitempty"` // set only while attached
	Options    Options      `json:"options,omitempty"`
	QuotaRule  *QuotaRule   `json:"quotaRule,omitempty"`
	Labels     VolumeLabels `json:"labels"`
}

// Clone returns a deep copy so stores never share maps with callers.
func (v *Volume) Clone() *Volume {
	if v == nil {
		return nil
	}
	cp := *v
	cp.Options = v.Options.Clone()
	cp.QuotaRule = v.QuotaRule.Clone()
	cp.Labels = v.Labels.Clone()
	return &cp
}

// CheckDeletable reports whether a user-initiated delete may remove v.
func (v *Volume) CheckDeletable() error {
	if v.Labels.IsBuiltIn {
		return fmt.Errorf("%w: %s", ErrVolumeProtected, v.Name)
	}
	return nil
}

// QuotaRule limits the size of a volume. Size is in bytes and only applies
// when Enabled is set.
type QuotaRule struct {
	Enabled bool
	Size    int64
	Extra   map[string]any
}

func (q *QuotaRule) Clone() *QuotaRule {
	if q == nil {
		return nil
	}
	cp := *q
	cp.Extra = cloneMap(q.Extra)
	return &cp
}

// EffectiveSize returns the enforced size, or 0 when no quota applies.
func (q *QuotaRule) EffectiveSize() int64 {
	if q == nil || !q.Enabled {
		return 0
	}
	return q.Size
}

func (q QuotaRule) MarshalJSON() ([]byte, error) {
	return marshalOpen(map[string]any{"enabled": q.Enabled, "size": q.Size}, q.Extra)
}

func (q *QuotaRule) UnmarshalJSON(data []byte) error {
	known, extra, err := unmarshalOpen(data, "enabled", "size")
	if err != nil {
		return err
	}
	*q = QuotaRule{Extra: extra}
	if raw, ok := known["enabled"]; ok {
		if q.Enabled, err = decodeLooseBool(raw); err != nil {
			return fmt.Errorf("quotaRule.enabled: %w", err)
		}
	}
	if raw, ok := known["size"]; ok {
		if err := json.Unmarshal(raw, &q.Size); err != nil {
			return fmt.Errorf("quotaRule.size: %w", err)
		}
	}
	return nil
}

// Label keys carried by every volume.
const (
	LabelVolumeType = "volumeTypeEnum"
	LabelUserID     = "userId"
	LabelUsername   = "username"
	LabelZfsDataset = "zfsDataset"
	LabelIsBuiltIn  = "isBuiltIn"
	LabelAlias      = "alias"
)

var volumeLabelKeys = []string{LabelVolumeType, LabelUserID, LabelUsername, LabelZfsDataset, LabelIsBuiltIn, LabelAlias}

// VolumeLabels is the structured part of a volume's labels. Any other label
// key is kept in Extra and written back unchanged.
type VolumeLabels struct {
	VolumeTypeEnum string
	UserID         string
	Username       string
	ZfsDataset     string
	IsBuiltIn      bool
	Alias          string
	Extra          map[string]any
}

func (l VolumeLabels) Clone() VolumeLabels {
	l.Extra = cloneMap(l.Extra)
	return l
}

func (l VolumeLabels) MarshalJSON() ([]byte, error) {
	return marshalOpen(map[string]any{
		LabelVolumeType: l.VolumeTypeEnum,
		LabelUserID:     l.UserID,
		LabelUsername:   l.Username,
		LabelZfsDataset: l.ZfsDataset,
		LabelIsBuiltIn:  l.IsBuiltIn,
		LabelAlias:      l.Alias,
	}, l.Extra)
}

func (l *VolumeLabels) UnmarshalJSON(data []byte) error {
	known, extra, err := unmarshalOpen(data, volumeLabelKeys...)
	if err != nil {
		return err
	}
	*l = VolumeLabels{Extra: extra}
	for key, dst := range map[string]*string{
		LabelVolumeType: &l.VolumeTypeEnum,
		LabelUserID:     &l.UserID,
		LabelUsername:   &l.Username,
		LabelZfsDataset: &l.ZfsDataset,
		LabelAlias:      &l.Alias,
	} {
		raw, ok := known[key]
		if !ok {
			continue
		}
		if *dst, err = decodeLooseString(raw); err != nil {
			return fmt.Errorf("labels.%s: %w", key, err)
		}
	}
	if raw, ok := known[LabelIsBuiltIn]; ok {
		if l.IsBuiltIn, err = decodeLooseBool(raw); err != nil {
			return fmt.Errorf("labels.%s: %w", LabelIsBuiltIn, err)
		}
	}
	return nil
}

// Docker labels are string-valued, so booleans and ids may arrive quoted or bare.
func decodeLooseBool(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, err
	}
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func decodeLooseString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// VolumeQuery selects live volumes. Empty fields impose no constraint.
type VolumeQuery struct {
	Name     string // case-insensitive substring of the name
	Alias    string // case-insensitive substring of the alias label
	Username string // exact username label
	Page     PageRequest
}

// Volume sort fields accepted in PageRequest.OrderBy.
var VolumeSortFields = []string{"name", "alias", "username", "driver", "createTime", "updateTime"}

// Matches reports whether v satisfies every set filter.
func (q VolumeQuery) Matches(v *Volume) bool {
	if q.Name != "" && !containsFold(v.Name, q.Name) {
		return false
	}
	if q.Alias != "" && !containsFold(v.Labels.Alias, q.Alias) {
		return false
	}
	if q.Username != "" && v.Labels.Username != q.Username {
		return false
	}
	return true
}

// CompareVolumes orders volumes by the given sort field, falling back to
// creation time and id.
func CompareVolumes(field string) func(a, b *Volume) int {
	return func(a, b *Volume) int {
		var c int
		switch field {
		case "name":
			c = cmp.Compare(a.Name, b.Name)
		case "alias":
			c = cmp.Compare(a.Labels.Alias, b.Labels.Alias)
		case "username":
			c = cmp.Compare(a.Labels.Username, b.Labels.Username)
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

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
