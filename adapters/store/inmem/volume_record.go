package inmem

import (
	"context"

	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
)

// VolumeRecordRepository is a thread-safe in-memory implementation.
type VolumeRecordRepository struct{ guard }

func (r *VolumeRecordRepository) Create(ctx context.Context, rec *model.VolumeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.lock()()
	if rec.ID == "" {
		rec.ID = naming.NewID(naming.VolumeRecordIDPrefix)
	} else if _, ok := r.st.records[rec.ID]; ok {
		return model.ErrVolumeRecordExists
	}
	r.st.records[rec.ID] = rec.Clone()
	return nil
}

func (r *VolumeRecordRepository) Get(_ context.Context, id string) (*model.VolumeRecord, error) {
	defer r.rlock()()
	rec, ok := r.st.records[id]
	if !ok {
		return nil, model.ErrVolumeRecordNotFound
	}
	return rec.Clone(), nil
}

func (r *VolumeRecordRepository) Search(_ context.Context, q model.VolumeRecordQuery) (*model.Page[*model.VolumeRecord], error) {
	if err := q.Page.CheckOrderBy(model.VolumeRecordSortFields...); err != nil {
		return nil, err
	}
	defer r.rlock()()
	var matched []*model.VolumeRecord
	for _, rec := range r.st.records {
		if q.Matches(rec) {
			matched = append(matched, rec.Clone())
		}
	}
	model.SortStable(matched, model.CompareVolumeRecords(q.Page.OrderBy), q.Page.OrderBy == "" || q.Page.IsAsc)
	return model.Paginate(matched, q.Page), nil
}

func (r *VolumeRecordRepository) Update(ctx context.Context, rec *model.VolumeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.lock()()
	existing, ok := r.st.records[rec.ID]
	if !ok {
		return model.ErrVolumeRecordNotFound
	}
	cp := rec.Clone()
	cp.CreateTime = existing.CreateTime
	cp.CreateBy = existing.CreateBy
	r.st.records[rec.ID] = cp
	return nil
}

func (r *VolumeRecordRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.lock()()
	if _, ok := r.st.records[id]; !ok {
		return model.ErrVolumeRecordNotFound
	}
	delete(r.st.records, id)
	return nil
}
