package operatelog

import (
	"context"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
)

type BatchDeleteInput struct {
	IDs      []string `json:"ids"`
	Operator string   `json:"-"`
}

type BatchDeleteOutput struct {
	Result *model.BatchResult `json:"result"`
}

// BatchDelete prunes finished sagas. Entries of sagas still in flight are
// reported as protected and kept.
func (u *UseCase) BatchDelete(ctx context.Context, in *BatchDeleteInput) (*BatchDeleteOutput, error) {
	if in == nil {
		return nil, model.ErrBatchEmpty
	}
	ids := model.NormalizeIDs(in.IDs)
	if len(ids) == 0 {
		return nil, model.ErrBatchEmpty
	}
	result := &model.BatchResult{}
	for _, id := range ids {
		if err := u.deleteOne(ctx, id); err != nil {
			result.Fail(id, err)
			continue
		}
		result.Ok(id)
		u.publish(ctx, domain.Event{Type: domain.EventOperateLogDeleted, ID: id, Operator: in.Operator})
	}
	return &BatchDeleteOutput{Result: result}, nil
}

// deleteOne checks the saga status and deletes in one unit of work, so a
// concurrent move back to a running state cannot slip between the two.
func (u *UseCase) deleteOne(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return domain.RunInUnit(ctx, u.UoW, u.repositories(), func(repos *domain.Repositories) error {
		l, err := repos.OperateLog.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := l.CheckPrunable(); err != nil {
			return err
		}
		return repos.OperateLog.Delete(ctx, id)
	})
}
