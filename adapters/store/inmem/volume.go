package inmem

import (
	"context"

	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
)

// VolumeRepository is a thread-safe in-memory implementation.
type VolumeRepository struct{ guard }

func (r *VolumeRepository) Create(ctx context.Context, v *model.Volume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.lock()()
	for _, existing := range r.st.volumes {
		if existing.Name == v.Name {
			return model.ErrVolumeExists
		}
	}
	if v.ID == "" {
		v.ID = naming.NewID(naming.VolumeIDPrefix)
	} else if _, ok := r.st.volumes[v.ID]; ok {
		return model.ErrVolumeExists
	}
	// Copy to avoid external mutation.
	r.st.volumes[v.ID] = v.Clone()
	return nil
}

func (r *VolumeRepository) Get(_ context.Context, id string) (*model.Volume, error) {
	defer r.rlock()()
	v, ok := r.st.volumes[id]
	if !ok {
		return nil, model.ErrVolumeNotFound
	}
	return v.Clone(), nil
}

func (r *VolumeRepository) GetByName(_ context.Context, name string) (*model.Volume, error) {
	defer r.rlock()()
	for _, v := range r.st.volumes {
		if v.Name == name {
			return v.Clone(), nil
		}
	}
	return nil, model.ErrVolumeNotFound
}

func (r *VolumeRepository) Search(_ context.Context, q model.VolumeQuery) (*model.Page[*model.Volume], error) {
	if err := q.Page.CheckOrderBy(model.VolumeSortFields...); err != nil {
		return nil, err
	}
	defer r.rlock()()
	var matched []*model.Volume
	for _, v := range r.st.volumes {
		if q.Matches(v) {
			matched = append(matched, v.Clone())
		}
	}
	model.SortStable(matched, model.CompareVolumes(q.Page.OrderBy), q.Page.OrderBy == "" || q.Page.IsAsc)
	return model.Paginate(matched, q.Page), nil
}

func (r *VolumeRepository) Update(ctx context.Context, v *model.Volume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.lock()()
	existing, ok := r.st.volumes[v.ID]
	if !ok {
		return model.ErrVolumeNotFound
	}
	cp := v.Clone()
	// Preserve creation-time fields if caller accidentally changed them.
	cp.Name = existing.Name
	cp.CreateTime = existing.CreateTime
	r.st.volumes[v.ID] = cp
	return nil
}

func (r *VolumeRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.lock()()
	if _, ok := r.st.volumes[id]; !ok {
		return model.ErrVolumeNotFound
	}
	delete(r.st.volumes, id)
	return nil
}
