package volume

import (
	"context"
	"fmt"
	"time"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
)

// UpdateInput specifies volume fields that can be changed. Nil fields are
// left untouched.
type UpdateInput struct {
	// ID identifies the volume when set; Name must then match the stored name.
	ID string `json:"id,omitempty"`
	// Name identifies the volume when ID is empty.
	Name       string           `json:"name,omitempty"`
	Alias      *string          `json:"alias,omitempty"`
	Username   *string          `json:"username,omitempty"`
	Mountpoint *string          `json:"mountpoint,omitempty"`
	Options    model.Options    `json:"options,omitempty"`
	QuotaRule  *model.QuotaRule `json:"quotaRule,omitempty"`
	// Labels replaces the extra label keys when non-nil.
	Labels map[string]any `json:"labels,omitempty"`
	// Driver and CreateTime are accepted only when unchanged.
	Driver     *string    `json:"driver,omitempty"`
	CreateTime *time.Time `json:"createTime,omitempty"`
	Operator   string     `json:"-"`
}

// UpdateOutput wraps the updated volume.
type UpdateOutput struct {
	Volume *model.Volume `json:"volume"`
}

func (u *UseCase) resolveForUpdate(ctx context.Context, in *UpdateInput) (*model.Volume, error) {
	switch {
	case in.ID != "":
		existing, err := u.Repos.Volume.Get(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if in.Name != "" && in.Name != existing.Name {
			return nil, model.ImmutableFieldError("volume", "name")
		}
		return existing, nil
	case in.Name != "":
		return u.Repos.Volume.GetByName(ctx, in.Name)
	default:
		return nil, fmt.Errorf("%w: id or name is required", model.ErrVolumeInvalid)
	}
}

// Update applies the provided changes to a volume.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: input is required", model.ErrVolumeInvalid)
	}
	existing, err := u.resolveForUpdate(ctx, in)
	if err != nil {
		return nil, err
	}
	if in.Driver != nil && *in.Driver != existing.Driver {
		return nil, model.ImmutableFieldError("volume", "driver")
	}
	if in.CreateTime != nil && !in.CreateTime.Equal(existing.CreateTime) {
		return nil, model.ImmutableFieldError("volume", "createTime")
	}

	changed := false
	if in.Alias != nil && *in.Alias != existing.Labels.Alias {
		if err := naming.ValidateAlias(*in.Alias); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrVolumeInvalid, err)
		}
		existing.Labels.Alias = *in.Alias
		changed = true
	}
	if in.Username != nil && *in.Username != existing.Labels.Username {
		existing.Labels.Username = *in.Username
		changed = true
	}
	if in.Mountpoint != nil && *in.Mountpoint != existing.Mountpoint {
		existing.Mountpoint = *in.Mountpoint
		changed = true
	}
	if in.Options != nil {
		existing.Options = in.Options.Clone()
		changed = true
	}
	if in.QuotaRule != nil {
		existing.QuotaRule = in.QuotaRule.Clone()
		changed = true
	}
	if in.Labels != nil {
		existing.Labels.Extra = extraLabels(in.Labels)
		changed = true
	}
	if changed {
		existing.UpdateTime = u.now()
		if err := u.Repos.Volume.Update(ctx, existing); err != nil {
			return nil, err
		}
		u.publish(ctx, domain.Event{Type: domain.EventVolumeUpdated, ID: existing.Name, Operator: in.Operator, Data: existing})
	}
	return &UpdateOutput{Volume: existing}, nil
}
