package inmem

import (
	"context"
	"errors"
	"testing"

	"github.com/kompox/volsaga/adapters/store/storetest"
	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (*domain.Repositories, domain.UnitOfWork) {
		s := NewStore()
		return s.Repositories(), s
	})
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	v := &model.Volume{Name: "copy", Options: model.Options{"k": "v"}}
	if err := s.VolumeRepository.Create(ctx, v); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	v.Options["k"] = "changed"

	got, err := s.VolumeRepository.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Options["k"] != "v" {
		t.Errorf("stored volume shares caller map: %v", got.Options)
	}
	got.Options["k"] = "mutated"
	again, _ := s.VolumeRepository.Get(ctx, v.ID)
	if again.Options["k"] != "v" {
		t.Errorf("Get() returned shared map: %v", again.Options)
	}
}

func TestStoreDoCanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Do(ctx, func(*domain.Repositories) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}
