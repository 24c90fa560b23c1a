package operatelog

import (
	"context"
	"fmt"

	"github.com/kompox/volsaga/domain/model"
)

type GetInput struct {
	SagaOperateID string `json:"sagaOperateId"`
}

type GetOutput struct {
	Log *model.OperateLog `json:"log"`
}

func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil || in.SagaOperateID == "" {
		return nil, fmt.Errorf("%w: sagaOperateId is required", model.ErrOperateLogInvalid)
	}
	l, err := u.Repos.OperateLog.Get(ctx, in.SagaOperateID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Log: l}, nil
}
