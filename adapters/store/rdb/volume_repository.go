package rdb

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
	"gorm.io/gorm"
)

// VolumeRepository is a GORM-backed implementation of domain.VolumeRepository.
type VolumeRepository struct{ db *gorm.DB }

func NewVolumeRepository(db *gorm.DB) *VolumeRepository { return &VolumeRepository{db: db} }

var volumeColumns = map[string]string{
	"name":       "name",
	"alias":      "alias",
	"username":   "username",
	"driver":     "driver",
	"createTime": "create_time",
	"updateTime": "update_time",
}

func volumeToRow(v *model.Volume) (*VolumeRow, error) {
	row := &VolumeRow{
		ID:         v.ID,
		Name:       v.Name,
		Driver:     v.Driver,
		Mountpoint: v.Mountpoint,
		VolumeType: v.Labels.VolumeTypeEnum,
		UserID:     v.Labels.UserID,
		Username:   v.Labels.Username,
		ZfsDataset: v.Labels.ZfsDataset,
		IsBuiltIn:  v.Labels.IsBuiltIn,
		Alias:      v.Labels.Alias,
		CreateTime: v.CreateTime,
		UpdateTime: v.UpdateTime,
	}
	if len(v.Options) > 0 {
		b, err := json.Marshal(v.Options)
		if err != nil {
			return nil, err
		}
		row.Options = string(b)
	}
	if v.QuotaRule != nil {
		b, err := json.Marshal(v.QuotaRule)
		if err != nil {
			return nil, err
		}
		row.QuotaRule = string(b)
	}
	if len(v.Labels.Extra) > 0 {
		b, err := json.Marshal(v.Labels.Extra)
		if err != nil {
			return nil, err
		}
		row.LabelsExtra = string(b)
	}
	return row, nil
}

func volumeToModel(r *VolumeRow) (*model.Volume, error) {
	v := &model.Volume{
		ID:         r.ID,
		Name:       r.Name,
		Driver:     r.Driver,
		Mountpoint: r.Mountpoint,
		CreateTime: r.CreateTime,
		UpdateTime: r.UpdateTime,
		Labels: model.VolumeLabels{
			VolumeTypeEnum: r.VolumeType,
			UserID:         r.UserID,
			Username:       r.Username,
			ZfsDataset:     r.ZfsDataset,
			IsBuiltIn:      r.IsBuiltIn,
			Alias:          r.Alias,
		},
	}
	if r.Options != "" {
		if err := json.Unmarshal([]byte(r.Options), &v.Options); err != nil {
			return nil, err
		}
	}
	if r.QuotaRule != "" {
		v.QuotaRule = &model.QuotaRule{}
		if err := json.Unmarshal([]byte(r.QuotaRule), v.QuotaRule); err != nil {
			return nil, err
		}
	}
	if r.LabelsExtra != "" {
		if err := json.Unmarshal([]byte(r.LabelsExtra), &v.Labels.Extra); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (r *VolumeRepository) Create(ctx context.Context, v *model.Volume) error {
	row, err := volumeToRow(v)
	if err != nil {
		return err
	}
	if row.ID == "" {
		row.ID = naming.NewID(naming.VolumeIDPrefix)
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicate(err) {
			return model.ErrVolumeExists
		}
		return err
	}
	v.ID = row.ID
	return nil
}

func (r *VolumeRepository) Get(ctx context.Context, id string) (*model.Volume, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *VolumeRepository) GetByName(ctx context.Context, name string) (*model.Volume, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *VolumeRepository) first(ctx context.Context, query string, arg string) (*model.Volume, error) {
	var row VolumeRow
	if err := r.db.WithContext(ctx).First(&row, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrVolumeNotFound
		}
		return nil, err
	}
	return volumeToModel(&row)
}

func (r *VolumeRepository) Search(ctx context.Context, q model.VolumeQuery) (*model.Page[*model.Volume], error) {
	if err := q.Page.CheckOrderBy(model.VolumeSortFields...); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).Model(&VolumeRow{})
	if q.Name != "" {
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(q.Name))
	}
	if q.Alias != "" {
		tx = tx.Where(`LOWER(alias) LIKE ? ESCAPE '\'`, likePattern(q.Alias))
	}
	if q.Username != "" {
		tx = tx.Where("username = ?", q.Username)
	}
	tx = tx.Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}
	page := q.Page.Normalize()
	var rows []VolumeRow
	err := tx.Order(orderClause(volumeColumns, page.OrderBy, page.IsAsc, "id")).
		Offset(page.Offset()).Limit(page.Size).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*model.Volume, 0, len(rows))
	for i := range rows {
		v, err := volumeToModel(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return model.NewPage(out, page, total), nil
}

// Update writes every mutable column, including zero values.
func (r *VolumeRepository) Update(ctx context.Context, v *model.Volume) error {
	row, err := volumeToRow(v)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&VolumeRow{}).Where("id = ?", row.ID).
		Select("*").Omit("id", "name", "create_time").Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrVolumeNotFound
	}
	return nil
}

func (r *VolumeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&VolumeRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrVolumeNotFound
	}
	return nil
}

var _ domain.VolumeRepository = (*VolumeRepository)(nil)
