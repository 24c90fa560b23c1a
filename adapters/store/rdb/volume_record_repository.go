package rdb

import (
	"context"
	"errors"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
	"gorm.io/gorm"
)

// VolumeRecordRepository is a GORM-backed implementation of domain.VolumeRecordRepository.
type VolumeRecordRepository struct{ db *gorm.DB }

func NewVolumeRecordRepository(db *gorm.DB) *VolumeRecordRepository {
	return &VolumeRecordRepository{db: db}
}

var volumeRecordColumns = map[string]string{
	"volumeName": "volume_name",
	"driver":     "driver",
	"createTime": "create_time",
	"updateTime": "update_time",
}

func volumeRecordToRow(r *model.VolumeRecord) *VolumeRecordRow {
	return &VolumeRecordRow{
		ID:         r.ID,
		VolumeName: r.VolumeName,
		ZfsDataset: r.ZfsDataset,
		Driver:     r.Driver,
		Labels:     r.Labels,
		Options:    r.Options,
		Remark:     r.Remark,
		CreateBy:   r.CreateBy,
		CreateTime: r.CreateTime,
		UpdateBy:   r.UpdateBy,
		UpdateTime: r.UpdateTime,
	}
}

func volumeRecordToModel(row *VolumeRecordRow) *model.VolumeRecord {
	return &model.VolumeRecord{
		ID:         row.ID,
		VolumeName: row.VolumeName,
		ZfsDataset: row.ZfsDataset,
		Driver:     row.Driver,
		Labels:     row.Labels,
		Options:    row.Options,
		Remark:     row.Remark,
		Audit: model.Audit{
			CreateBy:   row.CreateBy,
			CreateTime: row.CreateTime,
			UpdateBy:   row.UpdateBy,
			UpdateTime: row.UpdateTime,
		},
	}
}

func (r *VolumeRecordRepository) Create(ctx context.Context, rec *model.VolumeRecord) error {
	row := volumeRecordToRow(rec)
	if row.ID == "" {
		row.ID = naming.NewID(naming.VolumeRecordIDPrefix)
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicate(err) {
			return model.ErrVolumeRecordExists
		}
		return err
	}
	rec.ID = row.ID
	return nil
}

func (r *VolumeRecordRepository) Get(ctx context.Context, id string) (*model.VolumeRecord, error) {
	var row VolumeRecordRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrVolumeRecordNotFound
		}
		return nil, err
	}
	return volumeRecordToModel(&row), nil
}

func (r *VolumeRecordRepository) Search(ctx context.Context, q model.VolumeRecordQuery) (*model.Page[*model.VolumeRecord], error) {
	if err := q.Page.CheckOrderBy(model.VolumeRecordSortFields...); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).Model(&VolumeRecordRow{})
	if q.VolumeName != "" {
		tx = tx.Where(`LOWER(volume_name) LIKE ? ESCAPE '\'`, likePattern(q.VolumeName))
	}
	tx = tx.Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}
	page := q.Page.Normalize()
	var rows []VolumeRecordRow
	err := tx.Order(orderClause(volumeRecordColumns, page.OrderBy, page.IsAsc, "id")).
		Offset(page.Offset()).Limit(page.Size).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*model.VolumeRecord, 0, len(rows))
	for i := range rows {
		out = append(out, volumeRecordToModel(&rows[i]))
	}
	return model.NewPage(out, page, total), nil
}

func (r *VolumeRecordRepository) Update(ctx context.Context, rec *model.VolumeRecord) error {
	res := r.db.WithContext(ctx).Model(&VolumeRecordRow{}).Where("id = ?", rec.ID).
		Select("*").Omit("id", "create_by", "create_time").Updates(volumeRecordToRow(rec))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrVolumeRecordNotFound
	}
	return nil
}

func (r *VolumeRecordRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&VolumeRecordRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrVolumeRecordNotFound
	}
	return nil
}

var _ domain.VolumeRecordRepository = (*VolumeRecordRepository)(nil)
