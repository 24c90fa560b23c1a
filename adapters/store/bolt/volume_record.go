package bolt

import (
	"context"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
	bolt "go.etcd.io/bbolt"
)

type VolumeRecordRepository struct{ runner }

func (r *VolumeRecordRepository) Create(ctx context.Context, rec *model.VolumeRecord) error {
	return r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVolumeRecords)
		id := rec.ID
		if id == "" {
			id = naming.NewID(naming.VolumeRecordIDPrefix)
		} else if b.Get([]byte(id)) != nil {
			return model.ErrVolumeRecordExists
		}
		cp := rec.Clone()
		cp.ID = id
		if err := putJSON(b, id, cp); err != nil {
			return err
		}
		rec.ID = id
		return nil
	})
}

func (r *VolumeRecordRepository) Get(ctx context.Context, id string) (*model.VolumeRecord, error) {
	var out *model.VolumeRecord
	err := r.view(ctx, func(tx *bolt.Tx) error {
		rec, err := getJSON[model.VolumeRecord](tx.Bucket(bucketVolumeRecords), id)
		if err != nil {
			return err
		}
		if rec == nil {
			return model.ErrVolumeRecordNotFound
		}
		out = rec
		return nil
	})
	return out, err
}

func (r *VolumeRecordRepository) Search(ctx context.Context, q model.VolumeRecordQuery) (*model.Page[*model.VolumeRecord], error) {
	if err := q.Page.CheckOrderBy(model.VolumeRecordSortFields...); err != nil {
		return nil, err
	}
	var matched []*model.VolumeRecord
	err := r.view(ctx, func(tx *bolt.Tx) error {
		var err error
		matched, err = listJSON(tx.Bucket(bucketVolumeRecords), q.Matches)
		return err
	})
	if err != nil {
		return nil, err
	}
	model.SortStable(matched, model.CompareVolumeRecords(q.Page.OrderBy), q.Page.OrderBy == "" || q.Page.IsAsc)
	return model.Paginate(matched, q.Page), nil
}

func (r *VolumeRecordRepository) Update(ctx context.Context, rec *model.VolumeRecord) error {
	return r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVolumeRecords)
		existing, err := getJSON[model.VolumeRecord](b, rec.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return model.ErrVolumeRecordNotFound
		}
		cp := rec.Clone()
		cp.CreateBy = existing.CreateBy
		cp.CreateTime = existing.CreateTime
		return putJSON(b, rec.ID, cp)
	})
}

func (r *VolumeRecordRepository) Delete(ctx context.Context, id string) error {
	return r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVolumeRecords)
		if b.Get([]byte(id)) == nil {
			return model.ErrVolumeRecordNotFound
		}
		return b.Delete([]byte(id))
	})
}

var _ domain.VolumeRecordRepository = (*VolumeRecordRepository)(nil)
