package volumerecord

import (
	"context"
	"fmt"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
)

// CreateInput contains a ledger entry written by hand. Labels and Options
// are JSON text stored exactly as given.
type CreateInput struct {
	VolumeName string `json:"volumeName"`
	ZfsDataset string `json:"zfsDataset"`
	Driver     string `json:"driver,omitempty"`
	Labels     string `json:"labels,omitempty"`
	Options    string `json:"options,omitempty"`
	Remark     string `json:"remark,omitempty"`
	Operator   string `json:"-"`
}

type CreateOutput struct {
	Record *model.VolumeRecord `json:"record"`
}

// Create appends a ledger entry. Several entries may share a volume name.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: input is required", model.ErrVolumeRecordInvalid)
	}
	rec := &model.VolumeRecord{
		VolumeName: in.VolumeName,
		ZfsDataset: in.ZfsDataset,
		Driver:     in.Driver,
		Labels:     in.Labels,
		Options:    in.Options,
		Remark:     in.Remark,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	rec.Stamp(in.Operator, u.now())
	if err := u.Repos.VolumeRecord.Create(ctx, rec); err != nil {
		return nil, err
	}
	u.publish(ctx, domain.Event{Type: domain.EventVolumeRecordCreated, ID: rec.ID, Operator: in.Operator, Data: rec})
	return &CreateOutput{Record: rec}, nil
}
