package inmem

import (
	"context"

	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/naming"
)

// OperateLogRepository is a thread-safe in-memory implementation.
type OperateLogRepository struct{ guard }

func (r *OperateLogRepository) Create(ctx context.Context, l *model.OperateLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.lock()()
	if l.SagaOperateID == "" {
		l.SagaOperateID = naming.NewID(naming.OperateLogIDPrefix)
	} else if _, ok := r.st.logs[l.SagaOperateID]; ok {
		return model.ErrOperateLogExists
	}
	r.st.logs[l.SagaOperateID] = l.Clone()
	return nil
}

func (r *OperateLogRepository) Get(_ context.Context, id string) (*model.OperateLog, error) {
	defer r.rlock()()
	l, ok := r.st.logs[id]
	if !ok {
		return nil, model.ErrOperateLogNotFound
	}
	return l.Clone(), nil
}

func (r *OperateLogRepository) Search(_ context.Context, q model.OperateLogQuery) (*model.Page[*model.OperateLog], error) {
	if err := q.Page.CheckOrderBy(model.OperateLogSortFields...); err != nil {
		return nil, err
	}
	defer r.rlock()()
	var matched []*model.OperateLog
	for _, l := range r.st.logs {
		if q.Matches(l) {
			matched = append(matched, l.Clone())
		}
	}
	model.SortStable(matched, model.CompareOperateLogs(q.Page.OrderBy), q.Page.OrderBy == "" || q.Page.IsAsc)
	return model.Paginate(matched, q.Page), nil
}

func (r *OperateLogRepository) Update(ctx context.Context, l *model.OperateLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.lock()()
	existing, ok := r.st.logs[l.SagaOperateID]
	if !ok {
		return model.ErrOperateLogNotFound
	}
	cp := l.Clone()
	cp.CreateTime = existing.CreateTime
	cp.CreateBy = existing.CreateBy
	r.st.logs[l.SagaOperateID] = cp
	return nil
}

func (r *OperateLogRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.lock()()
	if _, ok := r.st.logs[id]; !ok {
		return model.ErrOperateLogNotFound
	}
	delete(r.st.logs, id)
	return nil
}
