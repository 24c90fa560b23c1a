package volume

import (
	"context"

	"github.com/kompox/volsaga/domain/model"
)

// SearchInput defines optional filters for listing volumes.
type SearchInput struct {
	// Name matches a case-insensitive substring of the volume name.
	Name string `json:"name,omitempty"`
	// Alias matches a case-insensitive substring of the alias label.
	Alias string `json:"alias,omitempty"`
	// Username matches the username label exactly.
	Username string `json:"username,omitempty"`
	// Page selects the page and ordering.
	Page model.PageRequest `json:"page"`
}

// SearchOutput wraps one page of volumes.
type SearchOutput struct {
	Page *model.Page[*model.Volume] `json:"page"`
}

// Search returns the volumes matching every supplied filter. A filter that
// matches nothing yields an empty page, never an error.
func (u *UseCase) Search(ctx context.Context, in *SearchInput) (*SearchOutput, error) {
	if in == nil {
		in = &SearchInput{}
	}
	page, err := u.Repos.Volume.Search(ctx, model.VolumeQuery{
		Name:     in.Name,
		Alias:    in.Alias,
		Username: in.Username,
		Page:     in.Page,
	})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Page: page}, nil
}
