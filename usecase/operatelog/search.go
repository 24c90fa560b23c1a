package operatelog

import (
	"context"

	"github.com/kompox/volsaga/domain/model"
)

// SearchInput filters saga log entries.
type SearchInput struct {
	// SagaName matches a case-insensitive substring.
	SagaName string `json:"sagaName,omitempty"`
	// SagaStatus matches exactly, ignoring case.
	SagaStatus string            `json:"sagaStatus,omitempty"`
	Page       model.PageRequest `json:"page"`
}

type SearchOutput struct {
	Page *model.Page[*model.OperateLog] `json:"page"`
}

func (u *UseCase) Search(ctx context.Context, in *SearchInput) (*SearchOutput, error) {
	if in == nil {
		in = &SearchInput{}
	}
	page, err := u.Repos.OperateLog.Search(ctx, model.OperateLogQuery{
		SagaName:   in.SagaName,
		SagaStatus: in.SagaStatus,
		Page:       in.Page,
	})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Page: page}, nil
}
