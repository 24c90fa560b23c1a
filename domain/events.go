package domain

import (
	"context"
	"time"
)

// Event types published after a successful mutation.
const (
	EventVolumeCreated        = "volume.created"
	EventVolumeUpdated        = "volume.updated"
	EventVolumeDeleted        = "volume.deleted"
	EventVolumeRecordCreated  = "volumeRecord.created"
	EventVolumeRecordUpdated  = "volumeRecord.updated"
	EventVolumeRecordDeleted  = "volumeRecord.deleted"
	EventVolumeRecordRestored = "volumeRecord.restored"
	EventOperateLogCreated    = "operateLog.created"
	EventOperateLogUpdated    = "operateLog.updated"
	EventOperateLogDeleted    = "operateLog.deleted"
)

// Event describes a change to one entity.
type Event struct {
	Type     string    `json:"type"`
	ID       string    `json:"id"`
	Operator string    `json:"operator,omitempty"`
	Time     time.Time `json:"time"`
	Data     any       `json:"data,omitempty"`
}

// EventPublisher delivers events to interested parties. Delivery is best
// effort: callers log a failed publish and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
