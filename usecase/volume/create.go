package volume

import (
	"context"
	"fmt"
	"time"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
)

// CreateInput contains data to provision a volume.
type CreateInput struct {
	// Name is optional; one is generated from VolumeType when empty.
	Name string `json:"name,omitempty"`
	// Alias is the display name shown to users.
	Alias string `json:"alias"`
	// Driver defaults to the configured driver.
	Driver string `json:"driver,omitempty"`
	// CreateTime defaults to now.
	CreateTime *time.Time `json:"createTime,omitempty"`
	UserID     string     `json:"userId"`
	Username   string     `json:"username,omitempty"`
	VolumeType string     `json:"volumeTypeEnum"`
	// IsBuiltIn must be stated explicitly.
	IsBuiltIn  *bool            `json:"isBuiltIn"`
	Mountpoint string           `json:"mountpoint,omitempty"`
	Options    model.Options    `json:"options,omitempty"`
	QuotaRule  *model.QuotaRule `json:"quotaRule,omitempty"`
	// Labels holds extra label keys kept alongside the structured ones.
	Labels map[string]any `json:"labels,omitempty"`
	// Operator is recorded in the emitted event.
	Operator string `json:"-"`
}

// CreateOutput wraps the created volume.
type CreateOutput struct {
	Volume *model.Volume `json:"volume"`
}

func (in *CreateInput) validate() error {
	if in.UserID == "" {
		return fmt.Errorf("%w: userId is required", model.ErrVolumeInvalid)
	}
	if in.VolumeType == "" {
		return fmt.Errorf("%w: volumeTypeEnum is required", model.ErrVolumeInvalid)
	}
	if in.IsBuiltIn == nil {
		return fmt.Errorf("%w: isBuiltIn is required", model.ErrVolumeInvalid)
	}
	if err := naming.ValidateAlias(in.Alias); err != nil {
		return fmt.Errorf("%w: %v", model.ErrVolumeInvalid, err)
	}
	if in.Name != "" {
		if err := naming.ValidateVolumeName(in.Name); err != nil {
			return fmt.Errorf("%w: %v", model.ErrVolumeInvalid, err)
		}
	}
	return nil
}

// Create persists a new volume. The dataset path is derived from the user
// and the final name.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: input is required", model.ErrVolumeInvalid)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		generated, err := naming.NewVolumeName(in.VolumeType)
		if err != nil {
			return nil, fmt.Errorf("generate volume name: %w", err)
		}
		name = generated
	}
	driver := in.Driver
	if driver == "" {
		driver = u.Options.DefaultDriver
	}
	if driver == "" {
		driver = model.DefaultVolumeDriver
	}
	now := u.now()
	createTime := now
	if in.CreateTime != nil && !in.CreateTime.IsZero() {
		createTime = in.CreateTime.UTC()
	}

	v := &model.Volume{
		Name:       name,
		Driver:     driver,
		CreateTime: createTime,
		UpdateTime: now,
		Mountpoint: in.Mountpoint,
		Options:    in.Options.Clone(),
		QuotaRule:  in.QuotaRule.Clone(),
		Labels: model.VolumeLabels{
			VolumeTypeEnum: in.VolumeType,
			UserID:         in.UserID,
			Username:       in.Username,
			ZfsDataset:     naming.DatasetPath(u.Options.DatasetRoot, in.UserID, name),
			IsBuiltIn:      *in.IsBuiltIn,
			Alias:          in.Alias,
			Extra:          extraLabels(in.Labels),
		},
	}
	if err := u.Repos.Volume.Create(ctx, v); err != nil {
		return nil, err
	}
	u.publish(ctx, domain.Event{Type: domain.EventVolumeCreated, ID: v.Name, Operator: in.Operator, Data: v})
	return &CreateOutput{Volume: v}, nil
}

// extraLabels copies m without the structured label keys.
func extraLabels(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch k {
		case model.LabelVolumeType, model.LabelUserID, model.LabelUsername,
			model.LabelZfsDataset, model.LabelIsBuiltIn, model.LabelAlias:
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return model.Options(out).Clone()
}
