package httpclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/usecase/operatelog"
)

func (c *Client) OperateLogList(ctx context.Context, in *operatelog.SearchInput) (*model.Page[*model.OperateLog], error) {
	if in == nil {
		in = &operatelog.SearchInput{}
	}
	q := url.Values{}
	setIf(q, "sagaName", in.SagaName)
	setIf(q, "sagaStatus", in.SagaStatus)
	page := &model.Page[*model.OperateLog]{}
	if _, err := c.do(ctx, http.MethodGet, "/saga/operateLog/list", pageQuery(q, in.Page), nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) OperateLogDetail(ctx context.Context, sagaOperateID string) (*model.OperateLog, error) {
	l := &model.OperateLog{}
	if _, err := c.do(ctx, http.MethodGet, "/saga/operateLog/detail/"+url.PathEscape(sagaOperateID), nil, nil, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (c *Client) CreateOperateLog(ctx context.Context, in *operatelog.CreateInput) error {
	return c.mutate(ctx, http.MethodPost, "/saga/operateLog", in)
}

func (c *Client) UpdateOperateLog(ctx context.Context, in *operatelog.UpdateInput) error {
	return c.mutate(ctx, http.MethodPut, "/saga/operateLog", in)
}

// BatchDeleteOperateLog prunes saga logs. Logs of sagas still in flight are
// reported as protected failures.
func (c *Client) BatchDeleteOperateLog(ctx context.Context, ids []string) (*model.BatchResult, error) {
	return c.batchDelete(ctx, "/saga/operateLog", ids, nil)
}
