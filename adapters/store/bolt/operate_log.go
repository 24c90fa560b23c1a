package bolt

import (
	"context"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
	bolt "go.etcd.io/bbolt"
)

type OperateLogRepository struct{ runner }

func (r *OperateLogRepository) Create(ctx context.Context, l *model.OperateLog) error {
	return r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOperateLogs)
		id := l.SagaOperateID
		if id == "" {
			id = naming.NewID(naming.OperateLogIDPrefix)
		} else if b.Get([]byte(id)) != nil {
			return model.ErrOperateLogExists
		}
		cp := l.Clone()
		cp.SagaOperateID = id
		if err := putJSON(b, id, cp); err != nil {
			return err
		}
		l.SagaOperateID = id
		return nil
	})
}

func (r *OperateLogRepository) Get(ctx context.Context, id string) (*model.OperateLog, error) {
	var out *model.OperateLog
	err := r.view(ctx, func(tx *bolt.Tx) error {
		l, err := getJSON[model.OperateLog](tx.Bucket(bucketOperateLogs), id)
		if err != nil {
			return err
		}
		if l == nil {
			return model.ErrOperateLogNotFound
		}
		out = l
		return nil
	})
	return out, err
}

func (r *OperateLogRepository) Search(ctx context.Context, q model.OperateLogQuery) (*model.Page[*model.OperateLog], error) {
	if err := q.Page.CheckOrderBy(model.OperateLogSortFields...); err != nil {
		return nil, err
	}
	var matched []*model.OperateLog
	err := r.view(ctx, func(tx *bolt.Tx) error {
		var err error
		matched, err = listJSON(tx.Bucket(bucketOperateLogs), q.Matches)
		return err
	})
	if err != nil {
		return nil, err
	}
	model.SortStable(matched, model.CompareOperateLogs(q.Page.OrderBy), q.Page.OrderBy == "" || q.Page.IsAsc)
	return model.Paginate(matched, q.Page), nil
}

func (r *OperateLogRepository) Update(ctx context.Context, l *model.OperateLog) error {
	return r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOperateLogs)
		existing, err := getJSON[model.OperateLog](b, l.SagaOperateID)
		if err != nil {
			return err
		}
		if existing == nil {
			return model.ErrOperateLogNotFound
		}
		cp := l.Clone()
		cp.CreateBy = existing.CreateBy
		cp.CreateTime = existing.CreateTime
		return putJSON(b, l.SagaOperateID, cp)
	})
}

func (r *OperateLogRepository) Delete(ctx context.Context, id string) error {
	return r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOperateLogs)
		if b.Get([]byte(id)) == nil {
			return model.ErrOperateLogNotFound
		}
		return b.Delete([]byte(id))
	})
}

var _ domain.OperateLogRepository = (*OperateLogRepository)(nil)
