package volumerecord

import (
	"context"
	"fmt"

	"github.com/kompox/volsaga/domain/model"
)

type GetInput struct {
	ID string `json:"id"`
}

type GetOutput struct {
	Record *model.VolumeRecord `json:"record"`
}

// Get returns one ledger entry.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil || in.ID == "" {
		return nil, fmt.Errorf("%w: id is required", model.ErrVolumeRecordInvalid)
	}
	rec, err := u.Repos.VolumeRecord.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Record: rec}, nil
}
