package main

import (
	"github.com/kompox/volsaga/config/volsagacfg"
	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/usecase/operatelog"
	"github.com/kompox/volsaga/usecase/volume"
	"github.com/kompox/volsaga/usecase/volumerecord"
)

// useCases groups the use cases backed by one store.
type useCases struct {
	Volumes    *volume.UseCase
	Records    *volumerecord.UseCase
	OperateLog *operatelog.UseCase
}

// buildUseCases wires every use case to h and events.
func buildUseCases(h *storeHandle, cfg *volsagacfg.Root, events domain.EventPublisher) *useCases {
	if events == nil {
		events = domain.NopPublisher{}
	}
	return &useCases{
		Volumes: &volume.UseCase{
			Repos:  &volume.Repos{Volume: h.Repos.Volume, VolumeRecord: h.Repos.VolumeRecord},
			UoW:    h.UoW,
			Events: events,
			Options: volume.Options{
				DatasetRoot:    cfg.Volume.DatasetRoot,
				DefaultDriver:  cfg.Volume.DefaultDriver,
				RetainOnDelete: cfg.Volume.RetainOnDelete,
			},
		},
		Records: &volumerecord.UseCase{
			Repos:  &volumerecord.Repos{VolumeRecord: h.Repos.VolumeRecord, Volume: h.Repos.Volume},
			UoW:    h.UoW,
			Events: events,
		},
		OperateLog: &operatelog.UseCase{
			Repos:  &operatelog.Repos{OperateLog: h.Repos.OperateLog},
			UoW:    h.UoW,
			Events: events,
		},
	}
}
