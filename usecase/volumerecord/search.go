package volumerecord

import (
	"context"

	"github.com/kompox/volsaga/domain/model"
)

// SearchInput filters ledger entries.
type SearchInput struct {
	// VolumeName matches a case-insensitive substring.
	VolumeName string            `json:"volumeName,omitempty"`
	Page       model.PageRequest `json:"page"`
}

type SearchOutput struct {
	Page *model.Page[*model.VolumeRecord] `json:"page"`
}

// Search returns one page of ledger entries.
func (u *UseCase) Search(ctx context.Context, in *SearchInput) (*SearchOutput, error) {
	if in == nil {
		in = &SearchInput{}
	}
	page, err := u.Repos.VolumeRecord.Search(ctx, model.VolumeRecordQuery{VolumeName: in.VolumeName, Page: in.Page})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Page: page}, nil
}
