package operatelog

import (
	"context"
	"fmt"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
)

// CreateInput is a saga snapshot. The orchestrator owns every field; they
// are stored as given.
type CreateInput struct {
	// SagaOperateID is generated when empty.
	SagaOperateID   string `json:"sagaOperateId,omitempty"`
	SagaName        string `json:"sagaName"`
	SagaStatus      string `json:"sagaStatus"`
	CurrentStepName string `json:"currentStepName,omitempty"`
	SagaContextJSON string `json:"sagaContextJson,omitempty"`
	ErrorDetails    string `json:"errorDetails,omitempty"`
	Operator        string `json:"-"`
}

type CreateOutput struct {
	Log *model.OperateLog `json:"log"`
}

// Create records a snapshot. An existing SagaOperateID is a conflict.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: input is required", model.ErrOperateLogInvalid)
	}
	l := &model.OperateLog{
		SagaOperateID:   in.SagaOperateID,
		SagaName:        in.SagaName,
		SagaStatus:      model.SagaStatus(in.SagaStatus),
		CurrentStepName: in.CurrentStepName,
		SagaContextJSON: in.SagaContextJSON,
		ErrorDetails:    in.ErrorDetails,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	l.Stamp(in.Operator, u.now())
	if err := u.Repos.OperateLog.Create(ctx, l); err != nil {
		return nil, err
	}
	u.publish(ctx, domain.Event{Type: domain.EventOperateLogCreated, ID: l.SagaOperateID, Operator: in.Operator, Data: l})
	return &CreateOutput{Log: l}, nil
}
