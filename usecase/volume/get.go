package volume

import (
	"context"
	"fmt"

	"github.com/kompox/volsaga/domain/model"
)

// GetInput identifies a volume by name.
type GetInput struct {
	Name string `json:"name"`
}

// GetOutput wraps the volume.
type GetOutput struct {
	Volume *model.Volume `json:"volume"`
}

// Get returns the live volume with exactly the given name.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil || in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrVolumeInvalid)
	}
	v, err := u.Repos.Volume.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Volume: v}, nil
}
