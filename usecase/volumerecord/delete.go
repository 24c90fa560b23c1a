package volumerecord

import (
	"context"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
)

// BatchDeleteInput identifies ledger entries to purge for good.
type BatchDeleteInput struct {
	IDs      []string `json:"ids"`
	Operator string   `json:"-"`
}

type BatchDeleteOutput struct {
	Result *model.BatchResult `json:"result"`
}

// BatchDelete purges each entry independently.
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
		if err := ctx.Err(); err != nil {
			result.Fail(id, err)
			continue
		}
		if err := u.Repos.VolumeRecord.Delete(ctx, id); err != nil {
			result.Fail(id, err)
			continue
		}
		result.Ok(id)
		u.publish(ctx, domain.Event{Type: domain.EventVolumeRecordDeleted, ID: id, Operator: in.Operator})
	}
	return &BatchDeleteOutput{Result: result}, nil
}
