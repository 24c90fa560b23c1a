package rdb

import (
	"context"
	"errors"
	"strings"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
	"gorm.io/gorm"
)

// OperateLogRepository is a GORM-backed implementation of domain.OperateLogRepository.
type OperateLogRepository struct{ db *gorm.DB }

func NewOperateLogRepository(db *gorm.DB) *OperateLogRepository {
	return &OperateLogRepository{db: db}
}

var operateLogColumns = map[string]string{
	"sagaName":   "saga_name",
	"sagaStatus": "saga_status",
	"createTime": "create_time",
	"updateTime": "update_time",
}

func operateLogToRow(l *model.OperateLog) *OperateLogRow {
	return &OperateLogRow{
		SagaOperateID:   l.SagaOperateID,
		SagaName:        l.SagaName,
		SagaStatus:      string(l.SagaStatus),
		CurrentStepName: l.CurrentStepName,
		SagaContextJSON: l.SagaContextJSON,
		ErrorDetails:    l.ErrorDetails,
		CreateBy:        l.CreateBy,
		CreateTime:      l.CreateTime,
		UpdateBy:        l.UpdateBy,
		UpdateTime:      l.UpdateTime,
	}
}

func operateLogToModel(row *OperateLogRow) *model.OperateLog {
	return &model.OperateLog{
		SagaOperateID:   row.SagaOperateID,
		SagaName:        row.SagaName,
		SagaStatus:      model.SagaStatus(row.SagaStatus),
		CurrentStepName: row.CurrentStepName,
		SagaContextJSON: row.SagaContextJSON,
		ErrorDetails:    row.ErrorDetails,
		Audit: model.Audit{
			CreateBy:   row.CreateBy,
			CreateTime: row.CreateTime,
			UpdateBy:   row.UpdateBy,
			UpdateTime: row.UpdateTime,
		},
	}
}

func (r *OperateLogRepository) Create(ctx context.Context, l *model.OperateLog) error {
	row := operateLogToRow(l)
	if row.SagaOperateID == "" {
		row.SagaOperateID = naming.NewID(naming.OperateLogIDPrefix)
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicate(err) {
			return model.ErrOperateLogExists
		}
		return err
	}
	l.SagaOperateID = row.SagaOperateID
	return nil
}

func (r *OperateLogRepository) Get(ctx context.Context, id string) (*model.OperateLog, error) {
	var row OperateLogRow
	if err := r.db.WithContext(ctx).First(&row, "saga_operate_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrOperateLogNotFound
		}
		return nil, err
	}
	return operateLogToModel(&row), nil
}

func (r *OperateLogRepository) Search(ctx context.Context, q model.OperateLogQuery) (*model.Page[*model.OperateLog], error) {
	if err := q.Page.CheckOrderBy(model.OperateLogSortFields...); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).Model(&OperateLogRow{})
	if q.SagaName != "" {
		tx = tx.Where(`LOWER(saga_name) LIKE ? ESCAPE '\'`, likePattern(q.SagaName))
	}
	if q.SagaStatus != "" {
		tx = tx.Where("LOWER(saga_status) = ?", strings.ToLower(q.SagaStatus))
	}
	tx = tx.Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}
	page := q.Page.Normalize()
	var rows []OperateLogRow
	err := tx.Order(orderClause(operateLogColumns, page.OrderBy, page.IsAsc, "saga_operate_id")).
		Offset(page.Offset()).Limit(page.Size).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*model.OperateLog, 0, len(rows))
	for i := range rows {
		out = append(out, operateLogToModel(&rows[i]))
	}
	return model.NewPage(out, page, total), nil
}

func (r *OperateLogRepository) Update(ctx context.Context, l *model.OperateLog) error {
	res := r.db.WithContext(ctx).Model(&OperateLogRow{}).Where("saga_operate_id = ?", l.SagaOperateID).
		Select("*").Omit("saga_operate_id", "create_by", "create_time").Updates(operateLogToRow(l))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrOperateLogNotFound
	}
	return nil
}

func (r *OperateLogRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&OperateLogRow{}, "saga_operate_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrOperateLogNotFound
	}
	return nil
}

var _ domain.OperateLogRepository = (*OperateLogRepository)(nil)
