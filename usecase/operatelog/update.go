package operatelog

import (
	"context"
	"fmt"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
)

// UpdateInput overwrites the supplied snapshot fields. Status transitions
// are not checked.
type UpdateInput struct {
	SagaOperateID   string  `json:"sagaOperateId"`
	SagaName        *string `json:"sagaName,omitempty"`
	SagaStatus      *string `json:"sagaStatus,omitempty"`
	CurrentStepName *string `json:"currentStepName,omitempty"`
	SagaContextJSON *string `json:"sagaContextJson,omitempty"`
	ErrorDetails    *string `json:"errorDetails,omitempty"`
	Operator        string  `json:"-"`
}

type UpdateOutput struct {
	Log *model.OperateLog `json:"log"`
}

func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
	if in == nil || in.SagaOperateID == "" {
		return nil, fmt.Errorf("%w: sagaOperateId is required", model.ErrOperateLogInvalid)
	}
	var (
		existing *model.OperateLog
		changed  bool
	)
	err := domain.RunInUnit(ctx, u.UoW, u.repositories(), func(repos *domain.Repositories) error {
		var err error
		existing, err = repos.OperateLog.Get(ctx, in.SagaOperateID)
		if err != nil {
			return err
		}
		set := func(dst *string, v *string) {
			if v != nil && *v != *dst {
				*dst = *v
				changed = true
			}
		}
		set(&existing.SagaName, in.SagaName)
		set(&existing.CurrentStepName, in.CurrentStepName)
		set(&existing.SagaContextJSON, in.SagaContextJSON)
		set(&existing.ErrorDetails, in.ErrorDetails)
		if in.SagaStatus != nil && model.SagaStatus(*in.SagaStatus) != existing.SagaStatus {
			existing.SagaStatus = model.SagaStatus(*in.SagaStatus)
			changed = true
		}
		if !changed {
			return nil
		}
		if err := existing.Validate(); err != nil {
			return err
		}
		existing.Touch(in.Operator, u.now())
		return repos.OperateLog.Update(ctx, existing)
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return &UpdateOutput{Log: existing}, nil
	}
	u.publish(ctx, domain.Event{Type: domain.EventOperateLogUpdated, ID: existing.SagaOperateID, Operator: in.Operator, Data: existing})
	return &UpdateOutput{Log: existing}, nil
}
