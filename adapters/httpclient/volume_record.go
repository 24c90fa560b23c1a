package httpclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/usecase/volumerecord"
)

func (c *Client) VolumeRecordList(ctx context.Context, in *volumerecord.SearchInput) (*model.Page[*model.VolumeRecord], error) {
	if in == nil {
		in = &volumerecord.SearchInput{}
	}
	q := url.Values{}
	setIf(q, "volumeName", in.VolumeName)
	page := &model.Page[*model.VolumeRecord]{}
	if _, err := c.do(ctx, http.MethodGet, "/docker/volumeRecord/list", pageQuery(q, in.Page), nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) VolumeRecordDetail(ctx context.Context, id string) (*model.VolumeRecord, error) {
	rec := &model.VolumeRecord{}
	if _, err := c.do(ctx, http.MethodGet, "/docker/volumeRecord/detail/"+url.PathEscape(id), nil, nil, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) CreateVolumeRecord(ctx context.Context, in *volumerecord.CreateInput) error {
	return c.mutate(ctx, http.MethodPost, "/docker/volumeRecord", in)
}

func (c *Client) UpdateVolumeRecord(ctx context.Context, in *volumerecord.UpdateInput) error {
	return c.mutate(ctx, http.MethodPut, "/docker/volumeRecord", in)
}

func (c *Client) BatchDeleteVolumeRecord(ctx context.Context, ids []string) (*model.BatchResult, error) {
	return c.batchDelete(ctx, "/docker/volumeRecord", ids, nil)
}

// RestoreVolumeRecord recreates the volume held by ledger entry id. A
// non-empty name overrides the recorded volume name.
func (c *Client) RestoreVolumeRecord(ctx context.Context, id, name string) error {
	var body any
	if name != "" {
		body = &volumerecord.RestoreInput{Name: name}
	}
	return c.mutate(ctx, http.MethodPost, "/docker/volumeRecord/restore/"+url.PathEscape(id), body)
}
