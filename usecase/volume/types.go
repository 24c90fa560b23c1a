package volume

import (
	"context"
	"time"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/internal/logging"
)

// Repos holds repositories needed for volume use cases.
type Repos struct {
	Volume       domain.VolumeRepository
	VolumeRecord domain.VolumeRecordRepository
}

// Options carries registry settings taken from configuration.
type Options struct {
	// DatasetRoot is the parent of every per-user dataset.
	DatasetRoot string
	// DefaultDriver applies when a create request names no driver.
	DefaultDriver string
	// RetainOnDelete writes a ledger record for every deleted volume unless
	// the request asks for a purge.
	RetainOnDelete bool
}

// UseCase wires repositories and collaborators needed for volume use cases.
type UseCase struct {
	Repos   *Repos
	UoW     domain.UnitOfWork
	Events  domain.EventPublisher
	Options Options
	Clock   func() time.Time
}

func (u *UseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock().UTC()
	}
	return time.Now().UTC()
}

func (u *UseCase) repositories() *domain.Repositories {
	return &domain.Repositories{Volume: u.Repos.Volume, VolumeRecord: u.Repos.VolumeRecord}
}

// publish delivers ev; a failure is logged and otherwise ignored.
func (u *UseCase) publish(ctx context.Context, ev domain.Event) {
	if u.Events == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = u.now()
	}
	if err := u.Events.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn(ctx, "event publish failed", "type", ev.Type, "id", ev.ID, "err", err)
	}
}
