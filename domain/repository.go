package domain

import (
	"context"
	"errors"

	"github.com/kompox/volsaga/domain/model"
)

// VolumeRepository stores live volumes keyed by ID and unique by Name.
type VolumeRepository interface {
	// Create returns model.ErrVolumeExists when the name is taken.
	Create(ctx context.Context, v *model.Volume) error
	Get(ctx context.Context, id string) (*model.Volume, error)
	GetByName(ctx context.Context, name string) (*model.Volume, error)
	Search(ctx context.Context, q model.VolumeQuery) (*model.Page[*model.Volume], error)
	Update(ctx context.Context, v *model.Volume) error
	Delete(ctx context.Context, id string) error
}

// VolumeRecordRepository stores Recovery Ledger entries.
type VolumeRecordRepository interface {
	Create(ctx context.Context, r *model.VolumeRecord) error
	Get(ctx context.Context, id string) (*model.VolumeRecord, error)
	Search(ctx context.Context, q model.VolumeRecordQuery) (*model.Page[*model.VolumeRecord], error)
	Update(ctx context.Context, r *model.VolumeRecord) error
	Delete(ctx context.Context, id string) error
}

// OperateLogRepository stores saga audit snapshots keyed by SagaOperateID.
type OperateLogRepository interface {
	// Create returns model.ErrOperateLogExists when the id is taken.
	Create(ctx context.Context, l *model.OperateLog) error
	Get(ctx context.Context, id string) (*model.OperateLog, error)
	Search(ctx context.Context, q model.OperateLogQuery) (*model.Page[*model.OperateLog], error)
	Update(ctx context.Context, l *model.OperateLog) error
	Delete(ctx context.Context, id string) error
}

// UnitOfWork coordinates transactional operations.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups repository interfaces for use inside UnitOfWork.
type Repositories struct {
	Volume       VolumeRepository
	VolumeRecord VolumeRecordRepository
	OperateLog   OperateLogRepository
}

var ErrUnitOfWorkNotSupported = errors.New("unit of work not supported")

// RunInUnit runs fn inside uow when one is available, otherwise directly
// against repos.
func RunInUnit(ctx context.Context, uow UnitOfWork, repos *Repositories, fn func(repos *Repositories) error) error {
	if uow == nil {
		return fn(repos)
	}
	err := uow.Do(ctx, fn)
	if errors.Is(err, ErrUnitOfWorkNotSupported) {
		return fn(repos)
	}
	return err
}
