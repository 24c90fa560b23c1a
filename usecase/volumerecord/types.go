package volumerecord

import (
	"context"
	"time"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/internal/logging"
)

// Repos holds repositories needed for ledger use cases. Volume is used by
// Restore only.
type Repos struct {
	VolumeRecord domain.VolumeRecordRepository
	Volume       domain.VolumeRepository
}

// UseCase wires repositories needed for ledger use cases.
type UseCase struct {
	Repos  *Repos
	UoW    domain.UnitOfWork
	Events domain.EventPublisher
	Clock  func() time.Time
}

func (u *UseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock().UTC()
	}
	return time.Now().UTC()
}

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
