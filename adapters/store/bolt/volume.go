package bolt

import (
	"context"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
	bolt "go.etcd.io/bbolt"
)

// VolumeRepository stores volumes keyed by ID with a name index.
type VolumeRepository struct{ runner }

func (r *VolumeRepository) Create(ctx context.Context, v *model.Volume) error {
	return r.update(ctx, func(tx *bolt.Tx) error {
		names := tx.Bucket(bucketVolumeNames)
		if names.Get([]byte(v.Name)) != nil {
			return model.ErrVolumeExists
		}
		b := tx.Bucket(bucketVolumes)
		id := v.ID
		if id == "" {
			id = naming.NewID(naming.VolumeIDPrefix)
		} else if b.Get([]byte(id)) != nil {
			return model.ErrVolumeExists
		}
		cp := v.Clone()
		cp.ID = id
		if err := putJSON(b, id, cp); err != nil {
			return err
		}
		if err := names.Put([]byte(v.Name), []byte(id)); err != nil {
			return err
		}
		v.ID = id
		return nil
	})
}

func (r *VolumeRepository) Get(ctx context.Context, id string) (*model.Volume, error) {
	var out *model.Volume
	err := r.view(ctx, func(tx *bolt.Tx) error {
		v, err := getJSON[model.Volume](tx.Bucket(bucketVolumes), id)
		if err != nil {
			return err
		}
		if v == nil {
			return model.ErrVolumeNotFound
		}
		out = v
		return nil
	})
	return out, err
}

func (r *VolumeRepository) GetByName(ctx context.Context, name string) (*model.Volume, error) {
	var out *model.Volume
	err := r.view(ctx, func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketVolumeNames).Get([]byte(name))
		if id == nil {
			return model.ErrVolumeNotFound
		}
		v, err := getJSON[model.Volume](tx.Bucket(bucketVolumes), string(id))
		if err != nil {
			return err
		}
		if v == nil {
			return model.ErrVolumeNotFound
		}
		out = v
		return nil
	})
	return out, err
}

func (r *VolumeRepository) Search(ctx context.Context, q model.VolumeQuery) (*model.Page[*model.Volume], error) {
	if err := q.Page.CheckOrderBy(model.VolumeSortFields...); err != nil {
		return nil, err
	}
	var matched []*model.Volume
	err := r.view(ctx, func(tx *bolt.Tx) error {
		var err error
		matched, err = listJSON(tx.Bucket(bucketVolumes), q.Matches)
		return err
	})
	if err != nil {
		return nil, err
	}
	model.SortStable(matched, model.CompareVolumes(q.Page.OrderBy), q.Page.OrderBy == "" || q.Page.IsAsc)
	return model.Paginate(matched, q.Page), nil
}

func (r *VolumeRepository) Update(ctx context.Context, v *model.Volume) error {
	return r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVolumes)
		existing, err := getJSON[model.Volume](b, v.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return model.ErrVolumeNotFound
		}
		cp := v.Clone()
		cp.Name = existing.Name
		cp.CreateTime = existing.CreateTime
		return putJSON(b, v.ID, cp)
	})
}

func (r *VolumeRepository) Delete(ctx context.Context, id string) error {
	return r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVolumes)
		existing, err := getJSON[model.Volume](b, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return model.ErrVolumeNotFound
		}
		if err := tx.Bucket(bucketVolumeNames).Delete([]byte(existing.Name)); err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
}

var _ domain.VolumeRepository = (*VolumeRepository)(nil)
