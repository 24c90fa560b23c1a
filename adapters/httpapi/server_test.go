package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kompox/volsaga/adapters/store/inmem"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/logging"
	"github.com/kompox/volsaga/usecase/operatelog"
	"github.com/kompox/volsaga/usecase/volume"
	"github.com/kompox/volsaga/usecase/volumerecord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *inmem.Store) {
	t.Helper()
	store := inmem.NewStore()
	clock := func() time.Time { return fixedNow }
	logger, err := logging.NewWithWriter("text", slog.LevelInfo, io.Discard)
	require.NoError(t, err)
	s := &Server{
		Volumes: &volume.UseCase{
			Repos:   &volume.Repos{Volume: store.VolumeRepository, VolumeRecord: store.VolumeRecordRepository},
			UoW:     store,
			Options: volume.Options{DatasetRoot: "tank/volumes", RetainOnDelete: true},
			Clock:   clock,
		},
		Records: &volumerecord.UseCase{
			Repos: &volumerecord.Repos{VolumeRecord: store.VolumeRecordRepository, Volume: store.VolumeRepository},
			UoW:   store,
			Clock: clock,
		},
		OperateLog: &operatelog.UseCase{
			Repos: &operatelog.Repos{OperateLog: store.OperateLogRepository},
			UoW:   store,
			Clock: clock,
		},
		Logger: logger,
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (int, Envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set(OperatorHeader, "alice")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.StatusCode, env.Code)
	return resp.StatusCode, env
}

const createVolumeBody = `{"name":"proj-data","alias":"Project","userId":"1001","username":"alice","volumeTypeEnum":"workspace","isBuiltIn":false,"labels":{"team":"ml"}}`

func TestVolumeLifecycle(t *testing.T) {
	ts, store := newTestServer(t)

	status, env := do(t, ts, http.MethodPost, "/docker/volume", createVolumeBody)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `true`, string(env.Data))

	status, env = do(t, ts, http.MethodGet, "/docker/volume/proj-data", "")
	require.Equal(t, http.StatusOK, status)
	var v model.Volume
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, "proj-data", v.Name)
	assert.Equal(t, "Project", v.Labels.Alias)

	status, _ = do(t, ts, http.MethodPut, "/docker/volume", `{"name":"proj-data","alias":"Renamed"}`)
	require.Equal(t, http.StatusOK, status)
	got, err := store.VolumeRepository.GetByName(context.Background(), "proj-data")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Labels.Alias)
	assert.Equal(t, "alice", got.Labels.Username)

	status, env = do(t, ts, http.MethodGet, "/docker/volume/list?name=proj&current=1&size=5", "")
	require.Equal(t, http.StatusOK, status)
	var page model.Page[*model.Volume]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 5, page.Size)
	require.Len(t, page.Records, 1)
}

func TestVolumeErrorsMapToStatus(t *testing.T) {
	ts, _ := newTestServer(t)
	_, _ = do(t, ts, http.MethodPost, "/docker/volume", createVolumeBody)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing volume", http.MethodGet, "/docker/volume/nope-volume", "", http.StatusNotFound},
		{"duplicate name", http.MethodPost, "/docker/volume", createVolumeBody, http.StatusConflict},
		{"bad json", http.MethodPost, "/docker/volume", `{"name":`, http.StatusBadRequest},
		{"missing fields", http.MethodPost, "/docker/volume", `{"name":"other-vol"}`, http.StatusBadRequest},
		{"immutable driver", http.MethodPut, "/docker/volume", `{"name":"proj-data","driver":"zfs"}`, http.StatusUnprocessableEntity},
		{"bad order column", http.MethodGet, "/docker/volume/list?orderByColumn=nope", "", http.StatusBadRequest},
		{"bad page", http.MethodGet, "/docker/volume/list?current=x", "", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/docker/nothing/here", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, ts, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, env.Msg)
			assert.Empty(t, env.Data)
		})
	}
}

func TestVolumeBatchDeletePartial(t *testing.T) {
	ts, store := newTestServer(t)
	_, _ = do(t, ts, http.MethodPost, "/docker/volume", createVolumeBody)

	status, env := do(t, ts, http.MethodDelete, "/docker/volume/proj-data,missing-vol", "")
	require.Equal(t, http.StatusMultiStatus, status)

	var res model.BatchResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, []string{"proj-data"}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "missing-vol", res.Failed[0].ID)
	assert.Equal(t, "not_found", res.Failed[0].Reason)

	recs, err := store.VolumeRecordRepository.Search(context.Background(), model.VolumeRecordQuery{})
	require.NoError(t, err)
	require.Len(t, recs.Records, 1)
	assert.Equal(t, "alice", recs.Records[0].CreateBy)
}

func TestVolumeBatchDeleteBuiltInIsProtected(t *testing.T) {
	ts, _ := newTestServer(t)
	body := strings.Replace(createVolumeBody, `"isBuiltIn":false`, `"isBuiltIn":true`, 1)
	status, _ := do(t, ts, http.MethodPost, "/docker/volume", body)
	require.Equal(t, http.StatusOK, status)

	status, env := do(t, ts, http.MethodDelete, "/docker/volume/proj-data", "")
	require.Equal(t, http.StatusMultiStatus, status)
	var res model.BatchResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "protected", res.Failed[0].Reason)

	status, _ = do(t, ts, http.MethodGet, "/docker/volume/proj-data", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestVolumeBatchDeletePurge(t *testing.T) {
	ts, store := newTestServer(t)
	_, _ = do(t, ts, http.MethodPost, "/docker/volume", createVolumeBody)

	status, _ := do(t, ts, http.MethodDelete, "/docker/volume/proj-data?purge=true", "")
	require.Equal(t, http.StatusOK, status)
	recs, err := store.VolumeRecordRepository.Search(context.Background(), model.VolumeRecordQuery{})
	require.NoError(t, err)
	assert.Empty(t, recs.Records)

	status, env := do(t, ts, http.MethodDelete, "/docker/volume/proj-data?purge=maybe", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Msg, `purge must be a boolean, got "maybe"`)
}

func TestVolumeRecordRestore(t *testing.T) {
	ts, store := newTestServer(t)
	_, _ = do(t, ts, http.MethodPost, "/docker/volume", createVolumeBody)
	_, _ = do(t, ts, http.MethodDelete, "/docker/volume/proj-data", "")

	recs, err := store.VolumeRecordRepository.Search(context.Background(), model.VolumeRecordQuery{})
	require.NoError(t, err)
	require.Len(t, recs.Records, 1)
	id := recs.Records[0].ID

	status, env := do(t, ts, http.MethodGet, "/docker/volumeRecord/detail/"+id, "")
	require.Equal(t, http.StatusOK, status)
	var rec model.VolumeRecord
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, "proj-data", rec.VolumeName)

	status, _ = do(t, ts, http.MethodPost, "/docker/volumeRecord/restore/"+id, "")
	require.Equal(t, http.StatusOK, status)

	v, err := store.VolumeRepository.GetByName(context.Background(), "proj-data")
	require.NoError(t, err)
	assert.Equal(t, "ml", v.Labels.Extra["team"])

	status, _ = do(t, ts, http.MethodGet, "/docker/volumeRecord/detail/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestVolumeRecordCRUD(t *testing.T) {
	ts, _ := newTestServer(t)
	labels := `{\"b\":1,\"a\":[true,null]}`
	status, _ := do(t, ts, http.MethodPost, "/docker/volumeRecord",
		`{"volumeName":"old-data","zfsDataset":"tank/volumes/1001/old-data","labels":"`+labels+`"}`)
	require.Equal(t, http.StatusOK, status)

	status, env := do(t, ts, http.MethodGet, "/docker/volumeRecord/list?volumeName=OLD", "")
	require.Equal(t, http.StatusOK, status)
	var page model.Page[*model.VolumeRecord]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Records, 1)
	rec := page.Records[0]
	assert.Equal(t, `{"b":1,"a":[true,null]}`, rec.Labels)
	assert.Equal(t, "alice", rec.CreateBy)

	status, _ = do(t, ts, http.MethodPut, "/docker/volumeRecord", `{"id":"`+rec.ID+`","remark":"kept"}`)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, ts, http.MethodPut, "/docker/volumeRecord", `{"id":"`+rec.ID+`","volumeName":"other"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env = do(t, ts, http.MethodDelete, "/docker/volumeRecord/"+rec.ID, "")
	require.Equal(t, http.StatusOK, status)
	var res model.BatchResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Success())
}

func TestOperateLogDeleteRequiresTerminalSaga(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, body := range []string{
		`{"sagaOperateId":"op-running","sagaName":"CreateVolume","sagaStatus":"RUNNING"}`,
		`{"sagaOperateId":"op-done","sagaName":"CreateVolume","sagaStatus":"COMPLETED"}`,
	} {
		status, _ := do(t, ts, http.MethodPost, "/saga/operateLog", body)
		require.Equal(t, http.StatusOK, status)
	}

	status, env := do(t, ts, http.MethodGet, "/saga/operateLog/list?sagaStatus=running", "")
	require.Equal(t, http.StatusOK, status)
	var page model.Page[*model.OperateLog]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Records, 1)
	assert.Equal(t, "op-running", page.Records[0].SagaOperateID)

	status, env = do(t, ts, http.MethodDelete, "/saga/operateLog/op-running,op-done", "")
	require.Equal(t, http.StatusMultiStatus, status)
	var res model.BatchResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, []string{"op-done"}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "protected", res.Failed[0].Reason)

	status, _ = do(t, ts, http.MethodPut, "/saga/operateLog", `{"sagaOperateId":"op-running","sagaStatus":"FAILED"}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = do(t, ts, http.MethodDelete, "/saga/operateLog/op-running", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, ts, http.MethodGet, "/saga/operateLog/detail/op-running", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthzAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t)

	status, env := do(t, ts, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	_, _ = do(t, ts, http.MethodGet, "/docker/volume/list", "")
	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), `volsaga_api_requests_total{method="GET",route="GET /docker/volume/list",status="200"} 1`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrVolumeInvalid, http.StatusBadRequest},
		{model.ErrVolumeRecordNotFound, http.StatusNotFound},
		{model.ImmutableFieldError("volume", "driver"), http.StatusUnprocessableEntity},
		{model.ErrOperateLogExists, http.StatusConflict},
		{model.ErrOperateLogInFlight, http.StatusForbidden},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}
