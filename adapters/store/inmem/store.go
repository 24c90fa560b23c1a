package inmem

import (
	"context"
	"maps"
	"sync"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
)

// state is shared by every repository of one Store. Stored values are
// private clones that are replaced, never mutated, so a shallow map copy is
// a complete snapshot.
type state struct {
	mu      sync.RWMutex
	volumes map[string]*model.Volume
	records map[string]*model.VolumeRecord
	logs    map[string]*model.OperateLog
}

func (s *state) snapshot() (map[string]*model.Volume, map[string]*model.VolumeRecord, map[string]*model.OperateLog) {
	return maps.Clone(s.volumes), maps.Clone(s.records), maps.Clone(s.logs)
}

// guard takes the state lock unless the caller already holds it inside a
// unit of work.
type guard struct {
	st   *state
	held bool
}

func (g guard) rlock() func() {
	if g.held {
		return func() {}
	}
	g.st.mu.RLock()
	return g.st.mu.RUnlock
}

func (g guard) lock() func() {
	if g.held {
		return func() {}
	}
	g.st.mu.Lock()
	return g.st.mu.Unlock
}

// Store provides a unified interface for all in-memory repositories.
type Store struct {
	st *state

	VolumeRepository       *VolumeRepository
	VolumeRecordRepository *VolumeRecordRepository
	OperateLogRepository   *OperateLogRepository
}

// NewStore creates a new in-memory store with all repositories.
func NewStore() *Store {
	st := &state{
		volumes: make(map[string]*model.Volume),
		records: make(map[string]*model.VolumeRecord),
		logs:    make(map[string]*model.OperateLog),
	}
	g := guard{st: st}
	return &Store{
		st:                     st,
		VolumeRepository:       &VolumeRepository{guard: g},
		VolumeRecordRepository: &VolumeRecordRepository{guard: g},
		OperateLogRepository:   &OperateLogRepository{guard: g},
	}
}

// Repositories returns the store's repositories as domain interfaces.
func (s *Store) Repositories() *domain.Repositories {
	return &domain.Repositories{
		Volume:       s.VolumeRepository,
		VolumeRecord: s.VolumeRecordRepository,
		OperateLog:   s.OperateLogRepository,
	}
}

// Do runs fn with exclusive access to the store. When fn fails, every change
// it made is discarded.
func (s *Store) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	volumes, records, logs := s.st.snapshot()
	g := guard{st: s.st, held: true}
	err := fn(&domain.Repositories{
		Volume:       &VolumeRepository{guard: g},
		VolumeRecord: &VolumeRecordRepository{guard: g},
		OperateLog:   &OperateLogRepository{guard: g},
	})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.st.volumes, s.st.records, s.st.logs = volumes, records, logs
	}
	return err
}

// Compile-time assertions
var (
	_ domain.UnitOfWork             = (*Store)(nil)
	_ domain.VolumeRepository       = (*VolumeRepository)(nil)
	_ domain.VolumeRecordRepository = (*VolumeRecordRepository)(nil)
	_ domain.OperateLogRepository   = (*OperateLogRepository)(nil)
)
