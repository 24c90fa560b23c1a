package volumerecord

import (
	"context"
	"fmt"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
)

// UpdateInput edits a ledger entry. Only Remark may change; the captured
// fields are accepted when they repeat the stored value.
type UpdateInput struct {
	ID         string  `json:"id"`
	Remark     *string `json:"remark,omitempty"`
	VolumeName *string `json:"volumeName,omitempty"`
	ZfsDataset *string `json:"zfsDataset,omitempty"`
	Driver     *string `json:"driver,omitempty"`
	Labels     *string `json:"labels,omitempty"`
	Options    *string `json:"options,omitempty"`
	Operator   string  `json:"-"`
}

type UpdateOutput struct {
	Record *model.VolumeRecord `json:"record"`
}

// Update changes the remark of a ledger entry.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
	if in == nil || in.ID == "" {
		return nil, fmt.Errorf("%w: id is required", model.ErrVolumeRecordInvalid)
	}
	existing, err := u.Repos.VolumeRecord.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	for _, f := range []struct {
		name  string
		value *string
		have  string
	}{
		{"volumeName", in.VolumeName, existing.VolumeName},
		{"zfsDataset", in.ZfsDataset, existing.ZfsDataset},
		{"driver", in.Driver, existing.Driver},
		{"labels", in.Labels, existing.Labels},
		{"options", in.Options, existing.Options},
	} {
		if f.value != nil && *f.value != f.have {
			return nil, model.ImmutableFieldError("volumeRecord", f.name)
		}
	}
	if in.Remark == nil || *in.Remark == existing.Remark {
		return &UpdateOutput{Record: existing}, nil
	}
	existing.Remark = *in.Remark
	existing.Touch(in.Operator, u.now())
	if err := u.Repos.VolumeRecord.Update(ctx, existing); err != nil {
		return nil, err
	}
	u.publish(ctx, domain.Event{Type: domain.EventVolumeRecordUpdated, ID: existing.ID, Operator: in.Operator, Data: existing})
	return &UpdateOutput{Record: existing}, nil
}
