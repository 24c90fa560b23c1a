// Package httpclient is a typed client for the volsaga REST API.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/kompox/volsaga/adapters/httpapi"
	"github.com/kompox/volsaga/domain/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client calls one volsaga server. Requests are never retried.
type Client struct {
	baseURL  string
	client   *http.Client
	operator string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its transport is used
// as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithOperator sets the X-Operator header sent with every request.
func WithOperator(operator string) Option {
	return func(c *Client) { c.operator = operator }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// do sends one request and decodes the envelope data into out when out is
// non-nil. Non-2xx answers become *APIError, except 207 which is returned
// with a nil error so batch callers can read the per-item outcome.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.operator != "" {
		req.Header.Set(httpapi.OperatorHeader, c.operator)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var env httpapi.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return resp.StatusCode, newAPIError(resp.StatusCode, resp.Status)
		}
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusMultiStatus {
		return resp.StatusCode, newAPIError(resp.StatusCode, env.Msg)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode data: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// mutate sends a create or update and checks the boolean acknowledgement.
func (c *Client) mutate(ctx context.Context, method, path string, body any) error {
	var ok bool
	if _, err := c.do(ctx, method, path, nil, body, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %s: server did not acknowledge", method, path)
	}
	return nil
}

// batchDelete returns the per-item outcome together with its aggregated
// error, so a partial failure is both inspectable and matchable.
func (c *Client) batchDelete(ctx context.Context, path string, ids []string, query url.Values) (*model.BatchResult, error) {
	ids = model.NormalizeIDs(ids)
	if len(ids) == 0 {
		return nil, model.ErrBatchEmpty
	}
	escaped := make([]string, len(ids))
	for i, id := range ids {
		escaped[i] = url.PathEscape(id)
	}
	res := &model.BatchResult{}
	if _, err := c.do(ctx, http.MethodDelete, path+"/"+strings.Join(escaped, ","), query, nil, res); err != nil {
		return nil, err
	}
	return res, res.Err()
}

func pageQuery(q url.Values, p model.PageRequest) url.Values {
	if p.Current > 0 {
		q.Set("current", strconv.Itoa(p.Current))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.OrderBy != "" {
		q.Set("orderByColumn", p.OrderBy)
		q.Set("isAsc", strconv.FormatBool(p.IsAsc))
	}
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
