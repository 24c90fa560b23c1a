// Package cache puts an LRU with a TTL in front of volume lookups.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/logging"
)

// entry wraps cached data with its load time for TTL checks.
type entry struct {
	volume    *model.Volume
	timestamp time.Time
}

// VolumeRepository caches Get and GetByName results of the wrapped
// repository. Writes through it invalidate the affected entries.
type VolumeRepository struct {
	next   domain.VolumeRepository
	byID   *lru.Cache[string, *entry]
	byName *lru.Cache[string, string]
	ttl    time.Duration
	now    func() time.Time

	mu  sync.Mutex // guards both caches and gen
	gen uint64     // bumped on every purge
}

// NewVolumeRepository wraps next with a cache of at most size volumes.
func NewVolumeRepository(next domain.VolumeRepository, size int, ttl time.Duration) (*VolumeRepository, error) {
	byID, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create volume cache: %w", err)
	}
	byName, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create volume name cache: %w", err)
	}
	return &VolumeRepository{next: next, byID: byID, byName: byName, ttl: ttl, now: time.Now}, nil
}

func (r *VolumeRepository) expired(e *entry) bool {
	return r.now().Sub(e.timestamp) > r.ttl
}

func (r *VolumeRepository) lookup(id string) (*model.Volume, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID.Get(id)
	if !ok {
		return nil, false
	}
	if r.expired(e) {
		r.byID.Remove(id)
		return nil, false
	}
	return e.volume.Clone(), true
}

// store adds v unless the cache was purged since gen was read.
func (r *VolumeRepository) store(gen uint64, v *model.Volume) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return
	}
	r.byID.Add(v.ID, &entry{volume: v.Clone(), timestamp: r.now()})
	r.byName.Add(v.Name, v.ID)
}

func (r *VolumeRepository) generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

func (r *VolumeRepository) invalidate(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	if id != "" {
		r.byID.Remove(id)
	}
	if name != "" {
		r.byName.Remove(name)
	}
}

// Purge drops every cached volume.
func (r *VolumeRepository) Purge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.byID.Purge()
	r.byName.Purge()
}

func (r *VolumeRepository) Create(ctx context.Context, v *model.Volume) error {
	if err := r.next.Create(ctx, v); err != nil {
		return err
	}
	r.invalidate(v.ID, v.Name)
	return nil
}

func (r *VolumeRepository) Get(ctx context.Context, id string) (*model.Volume, error) {
	if v, ok := r.lookup(id); ok {
		logging.FromContext(ctx).Debug(ctx, "volume cache hit", "id", id)
		return v, nil
	}
	gen := r.generation()
	v, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(gen, v)
	return v, nil
}

func (r *VolumeRepository) GetByName(ctx context.Context, name string) (*model.Volume, error) {
	r.mu.Lock()
	id, ok := r.byName.Get(name)
	r.mu.Unlock()
	if ok {
		if v, ok := r.lookup(id); ok && v.Name == name {
			logging.FromContext(ctx).Debug(ctx, "volume cache hit", "name", name)
			return v, nil
		}
	}
	gen := r.generation()
	v, err := r.next.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	r.store(gen, v)
	return v, nil
}

// Search always reads through.
func (r *VolumeRepository) Search(ctx context.Context, q model.VolumeQuery) (*model.Page[*model.Volume], error) {
	return r.next.Search(ctx, q)
}

func (r *VolumeRepository) Update(ctx context.Context, v *model.Volume) error {
	err := r.next.Update(ctx, v)
	r.invalidate(v.ID, "")
	return err
}

func (r *VolumeRepository) Delete(ctx context.Context, id string) error {
	err := r.next.Delete(ctx, id)
	r.invalidate(id, "")
	return err
}

var _ domain.VolumeRepository = (*VolumeRepository)(nil)

// Store exposes a repository set whose volume lookups go through the
// cache. Units of work run on the wrapped store and purge the cache when
// they finish, since their writes bypass it.
type Store struct {
	Volumes *VolumeRepository
	repos   *domain.Repositories
	uow     domain.UnitOfWork
}

// Wrap caches repos.Volume. uow may be nil.
func Wrap(repos *domain.Repositories, uow domain.UnitOfWork, size int, ttl time.Duration) (*Store, error) {
	volumes, err := NewVolumeRepository(repos.Volume, size, ttl)
	if err != nil {
		return nil, err
	}
	cp := *repos
	cp.Volume = volumes
	return &Store{Volumes: volumes, repos: &cp, uow: uow}, nil
}

func (s *Store) Repositories() *domain.Repositories { return s.repos }

func (s *Store) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	if s.uow == nil {
		return domain.ErrUnitOfWorkNotSupported
	}
	defer s.Volumes.Purge()
	return s.uow.Do(ctx, fn)
}

var _ domain.UnitOfWork = (*Store)(nil)
