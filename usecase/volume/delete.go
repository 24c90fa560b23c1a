package volume

import (
	"context"
	"errors"
	"fmt"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/logging"
)

// BatchDeleteInput identifies the volumes to delete.
type BatchDeleteInput struct {
	// IDs holds volume names or ids; names are tried first.
	IDs []string `json:"ids"`
	// Purge skips the ledger record even when retention is enabled.
	Purge    bool   `json:"purge,omitempty"`
	Operator string `json:"-"`
}

// BatchDeleteOutput reports the outcome of every identifier.
type BatchDeleteOutput struct {
	Result *model.BatchResult `json:"result"`
}

// BatchDelete removes each identified volume independently. Built-in volumes
// are refused; a failure never undoes the items already removed.
func (u *UseCase) BatchDelete(ctx context.Context, in *BatchDeleteInput) (*BatchDeleteOutput, error) {
	if in == nil {
		return nil, model.ErrBatchEmpty
	}
	ids := model.NormalizeIDs(in.IDs)
	if len(ids) == 0 {
		return nil, model.ErrBatchEmpty
	}
	logger := logging.FromContext(ctx)
	retain := u.Options.RetainOnDelete && !in.Purge

	result := &model.BatchResult{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result.Fail(id, err)
			continue
		}
		deleted, err := u.deleteOne(ctx, id, retain, in.Operator)
		if err != nil {
			logger.Debug(ctx, "volume delete failed", "id", id, "err", err)
			result.Fail(id, err)
			continue
		}
		result.Ok(id)
		u.publish(ctx, domain.Event{Type: domain.EventVolumeDeleted, ID: deleted.Name, Operator: in.Operator, Data: deleted})
	}
	return &BatchDeleteOutput{Result: result}, nil
}

func (u *UseCase) deleteOne(ctx context.Context, id string, retain bool, operator string) (*model.Volume, error) {
	var deleted *model.Volume
	err := domain.RunInUnit(ctx, u.UoW, u.repositories(), func(repos *domain.Repositories) error {
		v, err := resolve(ctx, repos.Volume, id)
		if err != nil {
			return err
		}
		if err := v.CheckDeletable(); err != nil {
			return err
		}
		if retain {
			rec, err := model.NewVolumeRecord(v)
			if err != nil {
				return err
			}
			rec.Remark = "deleted by " + operatorOrDefault(operator)
			rec.Stamp(operator, u.now())
			if err := repos.VolumeRecord.Create(ctx, rec); err != nil {
				return fmt.Errorf("record %s: %w", v.Name, err)
			}
		}
		if err := repos.Volume.Delete(ctx, v.ID); err != nil {
			return err
		}
		deleted = v
		return nil
	})
	return deleted, err
}

// resolve looks id up as a name first, then as a surrogate id.
func resolve(ctx context.Context, repo domain.VolumeRepository, id string) (*model.Volume, error) {
	v, err := repo.GetByName(ctx, id)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	v, err = repo.Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", model.ErrVolumeNotFound, id)
	}
	return v, err
}

func operatorOrDefault(op string) string {
	if op == "" {
		return "system"
	}
	return op
}
