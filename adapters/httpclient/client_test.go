package httpclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kompox/volsaga/adapters/httpapi"
	"github.com/kompox/volsaga/adapters/store/inmem"
	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/internal/logging"
	"github.com/kompox/volsaga/usecase/operatelog"
	"github.com/kompox/volsaga/usecase/volume"
	"github.com/kompox/volsaga/usecase/volumerecord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *inmem.Store) {
	t.Helper()
	store := inmem.NewStore()
	logger, err := logging.NewWithWriter("json", slog.LevelInfo, io.Discard)
	require.NoError(t, err)
	srv := &httpapi.Server{
		Volumes: &volume.UseCase{
			Repos:   &volume.Repos{Volume: store.VolumeRepository, VolumeRecord: store.VolumeRecordRepository},
			UoW:     store,
			Options: volume.Options{DatasetRoot: "tank/volumes", RetainOnDelete: true},
		},
		Records: &volumerecord.UseCase{
			Repos: &volumerecord.Repos{VolumeRecord: store.VolumeRecordRepository, Volume: store.VolumeRepository},
			UoW:   store,
		},
		OperateLog: &operatelog.UseCase{Repos: &operatelog.Repos{OperateLog: store.OperateLogRepository}, UoW: store},
		Logger:     logger,
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	c := New(ts.URL+"/", WithHTTPClient(ts.Client()), WithOperator("bob"))
	t.Cleanup(func() { _ = c.Close() })
	return c, store
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func createInput(name string) *volume.CreateInput {
	return &volume.CreateInput{
		Name:       name,
		Alias:      "Alias " + name,
		UserID:     "1001",
		Username:   "alice",
		VolumeType: "workspace",
		IsBuiltIn:  boolPtr(false),
		Labels:     map[string]any{"team": "ml"},
	}
}

func TestVolumeRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	require.NoError(t, c.CreateVolume(ctx, createInput("proj-data")))
	v, err := c.VolumeDetail(ctx, "proj-data")
	require.NoError(t, err)
	assert.Equal(t, "proj-data", v.Name)
	assert.Equal(t, model.DefaultVolumeDriver, v.Driver)
	assert.Equal(t, "ml", v.Labels.Extra["team"])

	require.NoError(t, c.UpdateVolume(ctx, &volume.UpdateInput{Name: "proj-data", Alias: strPtr("Renamed")}))
	v2, err := c.VolumeDetail(ctx, "proj-data")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", v2.Labels.Alias)
	assert.Equal(t, v.Driver, v2.Driver)
	assert.Equal(t, v.Labels.ZfsDataset, v2.Labels.ZfsDataset)
	assert.True(t, v.CreateTime.Equal(v2.CreateTime))

	page, err := c.VolumeList(ctx, &volume.SearchInput{Alias: "renamed", Page: model.PageRequest{Size: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 2, page.Size)
}

func TestErrorsMapToSentinels(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	require.NoError(t, c.CreateVolume(ctx, createInput("proj-data")))

	_, err := c.VolumeDetail(ctx, "missing-vol")
	assert.ErrorIs(t, err, model.ErrNotFound)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	err = c.CreateVolume(ctx, createInput("proj-data"))
	assert.ErrorIs(t, err, model.ErrConflict)

	err = c.CreateVolume(ctx, &volume.CreateInput{Name: "x"})
	assert.ErrorIs(t, err, model.ErrValidation)

	err = c.UpdateVolume(ctx, &volume.UpdateInput{Name: "proj-data", Driver: strPtr("zfs")})
	assert.ErrorIs(t, err, model.ErrImmutableField)

	_, err = c.VolumeList(ctx, &volume.SearchInput{Page: model.PageRequest{OrderBy: "bogus"}})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestBatchDeleteVolumePartial(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	require.NoError(t, c.CreateVolume(ctx, createInput("vol-a")))

	res, err := c.BatchDeleteVolume(ctx, []string{"vol-a", "vol-b"}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NotNil(t, res)
	assert.Equal(t, []string{"vol-a"}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "vol-b", res.Failed[0].ID)

	recs, err := c.VolumeRecordList(ctx, &volumerecord.SearchInput{VolumeName: "vol-a"})
	require.NoError(t, err)
	require.Len(t, recs.Records, 1)
	assert.Equal(t, "bob", recs.Records[0].CreateBy)

	_, err = c.BatchDeleteVolume(ctx, []string{" ", ""}, false)
	assert.ErrorIs(t, err, model.ErrBatchEmpty)
}

func TestVolumeRecordRestore(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	require.NoError(t, c.CreateVolume(ctx, createInput("proj-data")))
	_, err := c.BatchDeleteVolume(ctx, []string{"proj-data"}, false)
	require.NoError(t, err)

	recs, err := c.VolumeRecordList(ctx, nil)
	require.NoError(t, err)
	require.Len(t, recs.Records, 1)
	rec := recs.Records[0]

	got, err := c.VolumeRecordDetail(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Labels, got.Labels)

	require.NoError(t, c.UpdateVolumeRecord(ctx, &volumerecord.UpdateInput{ID: rec.ID, Remark: strPtr("restoring")}))
	require.NoError(t, c.RestoreVolumeRecord(ctx, rec.ID, "proj-data-2"))

	v, err := c.VolumeDetail(ctx, "proj-data-2")
	require.NoError(t, err)
	assert.Equal(t, "ml", v.Labels.Extra["team"])

	_, err = c.VolumeRecordDetail(ctx, rec.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestVolumeRecordCreateAndDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	labels := `{"z":1,  "a":"x"}`
	require.NoError(t, c.CreateVolumeRecord(ctx, &volumerecord.CreateInput{
		VolumeName: "old-data",
		ZfsDataset: "tank/volumes/1001/old-data",
		Labels:     labels,
	}))
	recs, err := c.VolumeRecordList(ctx, &volumerecord.SearchInput{VolumeName: "old"})
	require.NoError(t, err)
	require.Len(t, recs.Records, 1)
	assert.Equal(t, labels, recs.Records[0].Labels)

	res, err := c.BatchDeleteVolumeRecord(ctx, []string{recs.Records[0].ID})
	require.NoError(t, err)
	assert.True(t, res.Success())
}

func TestOperateLogPruneRejectsInFlightSaga(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	require.NoError(t, c.CreateOperateLog(ctx, &operatelog.CreateInput{SagaOperateID: "op-1", SagaName: "CreateVolume", SagaStatus: "RUNNING"}))
	require.NoError(t, c.CreateOperateLog(ctx, &operatelog.CreateInput{SagaOperateID: "op-2", SagaName: "CreateVolume", SagaStatus: "COMPENSATED"}))

	res, err := c.BatchDeleteOperateLog(ctx, []string{"op-1", "op-2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrProtectedResource)
	assert.Equal(t, []string{"op-2"}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "op-1", res.Failed[0].ID)
	assert.Equal(t, "protected", res.Failed[0].Reason)

	l, err := c.OperateLogDetail(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, model.SagaStatus("RUNNING"), l.SagaStatus)
	assert.Equal(t, "bob", l.CreateBy)

	require.NoError(t, c.UpdateOperateLog(ctx, &operatelog.UpdateInput{SagaOperateID: "op-1", SagaStatus: strPtr("COMPLETED")}))
	res, err = c.BatchDeleteOperateLog(ctx, []string{"op-1"})
	require.NoError(t, err)
	assert.True(t, res.Success())

	page, err := c.OperateLogList(ctx, &operatelog.SearchInput{SagaName: "create"})
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.EqualValues(t, 0, page.Total)
}

func TestClientHonoursContext(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	_, err := c.VolumeList(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
