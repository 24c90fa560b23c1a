package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/usecase/volume"
)

func (c *Client) VolumeList(ctx context.Context, in *volume.SearchInput) (*model.Page[*model.Volume], error) {
	if in == nil {
		in = &volume.SearchInput{}
	}
	q := url.Values{}
	setIf(q, "name", in.Name)
	setIf(q, "alias", in.Alias)
	setIf(q, "username", in.Username)
	page := &model.Page[*model.Volume]{}
	if _, err := c.do(ctx, http.MethodGet, "/docker/volume/list", pageQuery(q, in.Page), nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) VolumeDetail(ctx context.Context, name string) (*model.Volume, error) {
	v := &model.Volume{}
	if _, err := c.do(ctx, http.MethodGet, "/docker/volume/"+url.PathEscape(name), nil, nil, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Client) CreateVolume(ctx context.Context, in *volume.CreateInput) error {
	return c.mutate(ctx, http.MethodPost, "/docker/volume", in)
}

func (c *Client) UpdateVolume(ctx context.Context, in *volume.UpdateInput) error {
	return c.mutate(ctx, http.MethodPut, "/docker/volume", in)
}

// BatchDeleteVolume deletes volumes by name or id. Purge skips the ledger
// record.
func (c *Client) BatchDeleteVolume(ctx context.Context, ids []string, purge bool) (*model.BatchResult, error) {
	var q url.Values
	if purge {
		q = url.Values{"purge": {strconv.FormatBool(purge)}}
	}
	return c.batchDelete(ctx, "/docker/volume", ids, q)
}
