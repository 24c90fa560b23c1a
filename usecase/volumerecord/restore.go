package volumerecord

import (
	"context"
	"errors"
	"fmt"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
)

// RestoreInput selects the entry to bring back.
type RestoreInput struct {
	ID string `json:"id"`
	// Name overrides the original volume name.
	Name     string `json:"name,omitempty"`
	Operator string `json:"-"`
}

type RestoreOutput struct {
	Volume *model.Volume `json:"volume"`
}

// Restore recreates the live volume described by a ledger entry and removes
// the entry. Both happen or neither does.
func (u *UseCase) Restore(ctx context.Context, in *RestoreInput) (*RestoreOutput, error) {
	if in == nil || in.ID == "" {
		return nil, fmt.Errorf("%w: id is required", model.ErrVolumeRecordInvalid)
	}
	if in.Name != "" {
		if err := naming.ValidateVolumeName(in.Name); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrVolumeInvalid, err)
		}
	}
	if u.Repos.Volume == nil {
		return nil, errors.New("volume repository is not configured")
	}

	var restored *model.Volume
	repos := &domain.Repositories{Volume: u.Repos.Volume, VolumeRecord: u.Repos.VolumeRecord}
	err := domain.RunInUnit(ctx, u.UoW, repos, func(repos *domain.Repositories) error {
		rec, err := repos.VolumeRecord.Get(ctx, in.ID)
		if err != nil {
			return err
		}
		v, err := rec.ToVolume(in.Name)
		if err != nil {
			return err
		}
		if _, err := repos.Volume.GetByName(ctx, v.Name); err == nil {
			return fmt.Errorf("%w: %s", model.ErrVolumeExists, v.Name)
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}
		now := u.now()
		v.CreateTime, v.UpdateTime = now, now
		if err := repos.Volume.Create(ctx, v); err != nil {
			return err
		}
		if err := repos.VolumeRecord.Delete(ctx, rec.ID); err != nil {
			return err
		}
		restored = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, domain.Event{Type: domain.EventVolumeRecordRestored, ID: in.ID, Operator: in.Operator, Data: restored})
	return &RestoreOutput{Volume: restored}, nil
}
