// Package storetest holds behaviour tests shared by every repository
// implementation.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
)

// Factory returns a fresh, empty store. uow may be nil when the store has
// no transactions.
type Factory func(t *testing.T) (repos *domain.Repositories, uow domain.UnitOfWork)

// Run executes the full suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("VolumeCRUD", func(t *testing.T) { testVolumeCRUD(t, newStore) })
	t.Run("VolumeNameConflict", func(t *testing.T) { testVolumeNameConflict(t, newStore) })
	t.Run("VolumeRoundTripKeepsUnknownKeys", func(t *testing.T) { testVolumeRoundTrip(t, newStore) })
	t.Run("VolumeSearch", func(t *testing.T) { testVolumeSearch(t, newStore) })
	t.Run("VolumeSearchPaging", func(t *testing.T) { testVolumeSearchPaging(t, newStore) })
	t.Run("VolumeSearchRejectsUnknownOrder", func(t *testing.T) { testVolumeSearchOrderBy(t, newStore) })
	t.Run("VolumeRecordCRUD", func(t *testing.T) { testVolumeRecordCRUD(t, newStore) })
	t.Run("VolumeRecordVerbatimJSON", func(t *testing.T) { testVolumeRecordVerbatim(t, newStore) })
	t.Run("OperateLogCRUD", func(t *testing.T) { testOperateLogCRUD(t, newStore) })
	t.Run("OperateLogSearch", func(t *testing.T) { testOperateLogSearch(t, newStore) })
	t.Run("UnitOfWorkRollback", func(t *testing.T) { testUnitOfWorkRollback(t, newStore) })
	t.Run("UnitOfWorkCommit", func(t *testing.T) { testUnitOfWorkCommit(t, newStore) })
	t.Run("ConcurrentOverlappingDelete", func(t *testing.T) { testConcurrentOverlappingDelete(t, newStore) })
}

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newVolume(name, user string, i int) *model.Volume {
	return &model.Volume{
		Name:       name,
		Driver:     model.DefaultVolumeDriver,
		CreateTime: base.Add(time.Duration(i) * time.Minute),
		UpdateTime: base.Add(time.Duration(i) * time.Minute),
		Labels: model.VolumeLabels{
			VolumeTypeEnum: "workspace",
			UserID:         "1001",
			Username:       user,
			ZfsDataset:     "tank/volumes/1001/" + name,
			Alias:          "Alias " + name,
		},
	}
}

func testVolumeCRUD(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, _ := newStore(t)

	v := newVolume("data-1", "alice", 0)
	v.Options = model.Options{"compression": "lz4"}
	v.QuotaRule = &model.QuotaRule{Enabled: true, Size: 1 << 30}
	if err := repos.Volume.Create(ctx, v); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if v.ID == "" {
		t.Fatalf("Create() did not assign an id")
	}

	got, err := repos.Volume.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "data-1" || got.Labels.Username != "alice" || got.QuotaRule.EffectiveSize() != 1<<30 {
		t.Errorf("Get() = %+v", got)
	}
	if !got.CreateTime.Equal(v.CreateTime) {
		t.Errorf("CreateTime = %v, want %v", got.CreateTime, v.CreateTime)
	}
	if got.Options["compression"] != "lz4" {
		t.Errorf("Options = %v", got.Options)
	}

	byName, err := repos.Volume.GetByName(ctx, "data-1")
	if err != nil || byName.ID != v.ID {
		t.Fatalf("GetByName() = %v, %v", byName, err)
	}

	got.Mountpoint = "/mnt/data-1"
	got.Labels.Alias = "renamed"
	got.Name = "ignored"
	got.CreateTime = base.Add(time.Hour)
	got.UpdateTime = base.Add(2 * time.Hour)
	if err := repos.Volume.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	after, err := repos.Volume.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("Get() after update error = %v", err)
	}
	if after.Mountpoint != "/mnt/data-1" || after.Labels.Alias != "renamed" {
		t.Errorf("Update() not applied: %+v", after)
	}
	if after.Name != "data-1" || !after.CreateTime.Equal(v.CreateTime) {
		t.Errorf("Update() changed creation fields: name=%q createTime=%v", after.Name, after.CreateTime)
	}
	if !after.UpdateTime.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("UpdateTime = %v", after.UpdateTime)
	}

	if err := repos.Volume.Update(ctx, &model.Volume{ID: "vol-missing", Name: "x"}); !errors.Is(err, model.ErrVolumeNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrVolumeNotFound", err)
	}
	if err := repos.Volume.Delete(ctx, v.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repos.Volume.Get(ctx, v.ID); !errors.Is(err, model.ErrVolumeNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}
	if _, err := repos.Volume.GetByName(ctx, "data-1"); !errors.Is(err, model.ErrVolumeNotFound) {
		t.Errorf("GetByName() after delete error = %v", err)
	}
	if err := repos.Volume.Delete(ctx, v.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want not found", err)
	}
}

func testVolumeNameConflict(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, _ := newStore(t)

	if err := repos.Volume.Create(ctx, newVolume("shared", "alice", 0)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := repos.Volume.Create(ctx, newVolume("shared", "bob", 1))
	if !errors.Is(err, model.ErrVolumeExists) || !errors.Is(err, model.ErrConflict) {
		t.Fatalf("Create(duplicate) error = %v, want ErrVolumeExists", err)
	}
	page, err := repos.Volume.Search(ctx, model.VolumeQuery{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if page.Total != 1 {
		t.Errorf("Total = %d, want 1", page.Total)
	}
}

func testVolumeRoundTrip(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, _ := newStore(t)

	var v model.Volume
	input := `{
		"name": "extras",
		"driver": "zfs",
		"options": {"recordsize": "128k", "nested": {"a": [1, 2]}},
		"quotaRule": {"enabled": true, "size": 2048, "mode": "soft"},
		"labels": {"volumeTypeEnum": "dataset", "userId": "7", "zfsDataset": "tank/7/extras",
			"isBuiltIn": "false", "alias": "Extras", "team": "infra"}
	}`
	if err := json.Unmarshal([]byte(input), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	v.CreateTime, v.UpdateTime = base, base
	if err := repos.Volume.Create(ctx, &v); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := repos.Volume.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Labels.Extra["team"] != "infra" {
		t.Errorf("label extra lost: %v", got.Labels.Extra)
	}
	if got.QuotaRule == nil || got.QuotaRule.Extra["mode"] != "soft" {
		t.Errorf("quota extra lost: %+v", got.QuotaRule)
	}
	nested, ok := got.Options["nested"].(map[string]any)
	if !ok || len(nested["a"].([]any)) != 2 {
		t.Errorf("nested options lost: %v", got.Options)
	}
	want, _ := json.Marshal(v.Labels)
	have, _ := json.Marshal(got.Labels)
	if string(want) != string(have) {
		t.Errorf("labels = %s, want %s", have, want)
	}
}

func testVolumeSearch(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, _ := newStore(t)

	for i, spec := range []struct{ name, user string }{
		{"alpha-data", "alice"},
		{"beta-data", "bob"},
		{"gamma_100", "alice"},
		{"gamma-1x0", "carol"},
	} {
		if err := repos.Volume.Create(ctx, newVolume(spec.name, spec.user, i)); err != nil {
			t.Fatalf("Create(%s) error = %v", spec.name, err)
		}
	}

	tests := []struct {
		name  string
		query model.VolumeQuery
		want  []string
	}{
		{"all in creation order", model.VolumeQuery{}, []string{"alpha-data", "beta-data", "gamma_100", "gamma-1x0"}},
		{"name substring ignores case", model.VolumeQuery{Name: "DATA"}, []string{"alpha-data", "beta-data"}},
		{"underscore is literal", model.VolumeQuery{Name: "a_1"}, []string{"gamma_100"}},
		{"alias substring", model.VolumeQuery{Alias: "alias BETA"}, []string{"beta-data"}},
		{"username exact", model.VolumeQuery{Username: "alice"}, []string{"alpha-data", "gamma_100"}},
		{"username is not a substring match", model.VolumeQuery{Username: "ali"}, nil},
		{"order by name desc", model.VolumeQuery{Page: model.PageRequest{OrderBy: "name"}}, []string{"gamma_100", "gamma-1x0", "beta-data", "alpha-data"}},
		{"order by name asc", model.VolumeQuery{Page: model.PageRequest{OrderBy: "name", IsAsc: true}}, []string{"alpha-data", "beta-data", "gamma-1x0", "gamma_100"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repos.Volume.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			got := volumeNames(page.Records)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Search() = %v, want %v", got, tt.want)
			}
			if page.Total != int64(len(tt.want)) {
				t.Errorf("Total = %d, want %d", page.Total, len(tt.want))
			}
		})
	}
}

func testVolumeSearchPaging(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, _ := newStore(t)

	for i := range 12 {
		if err := repos.Volume.Create(ctx, newVolume(fmt.Sprintf("vol-%02d", i), "alice", i)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	page, err := repos.Volume.Search(ctx, model.VolumeQuery{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if page.Current != 1 || page.Size != model.DefaultPageSize || page.Total != 12 || len(page.Records) != 10 {
		t.Errorf("default page = current %d size %d total %d len %d", page.Current, page.Size, page.Total, len(page.Records))
	}

	page, err = repos.Volume.Search(ctx, model.VolumeQuery{Page: model.PageRequest{Current: 3, Size: 5}})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got := volumeNames(page.Records); fmt.Sprint(got) != "[vol-10 vol-11]" {
		t.Errorf("page 3 = %v", got)
	}

	page, err = repos.Volume.Search(ctx, model.VolumeQuery{Page: model.PageRequest{Current: 9, Size: 5}})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if page.Records == nil || len(page.Records) != 0 || page.Total != 12 {
		t.Errorf("past the end = %+v", page)
	}
}

func testVolumeSearchOrderBy(t *testing.T, newStore Factory) {
	repos, _ := newStore(t)
	_, err := repos.Volume.Search(context.Background(), model.VolumeQuery{Page: model.PageRequest{OrderBy: "name; DROP TABLE volumes"}})
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("Search() error = %v, want validation error", err)
	}
}

func newRecord(name string, i int) *model.VolumeRecord {
	r := &model.VolumeRecord{
		VolumeName: name,
		ZfsDataset: "tank/volumes/1001/" + name,
		Driver:     "local",
		Labels:     `{"userId":"1001","alias":"A"}`,
		Remark:     "",
	}
	r.Stamp("admin", base.Add(time.Duration(i)*time.Minute))
	return r
}

func testVolumeRecordCRUD(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, _ := newStore(t)

	rec := newRecord("gone", 0)
	if err := repos.VolumeRecord.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("Create() did not assign an id")
	}
	dup := newRecord("gone", 1)
	dup.ID = rec.ID
	if err := repos.VolumeRecord.Create(ctx, dup); !errors.Is(err, model.ErrVolumeRecordExists) {
		t.Errorf("Create(same id) error = %v, want ErrVolumeRecordExists", err)
	}
	second := newRecord("gone", 2)
	if err := repos.VolumeRecord.Create(ctx, second); err != nil {
		t.Fatalf("Create() for the same volume name error = %v", err)
	}

	got, err := repos.VolumeRecord.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got.Remark = "kept for audit"
	got.CreateBy = "someone-else"
	got.Touch("bob", base.Add(time.Hour))
	if err := repos.VolumeRecord.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	after, err := repos.VolumeRecord.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if after.Remark != "kept for audit" || after.UpdateBy != "bob" || after.CreateBy != "admin" {
		t.Errorf("after update = %+v", after)
	}

	page, err := repos.VolumeRecord.Search(ctx, model.VolumeRecordQuery{VolumeName: "GON"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if page.Total != 2 || page.Records[0].ID != rec.ID {
		t.Errorf("Search() = %+v", page)
	}

	if err := repos.VolumeRecord.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repos.VolumeRecord.Get(ctx, rec.ID); !errors.Is(err, model.ErrVolumeRecordNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}
	if err := repos.VolumeRecord.Update(ctx, got); !errors.Is(err, model.ErrVolumeRecordNotFound) {
		t.Errorf("Update() after delete error = %v", err)
	}
}

func testVolumeRecordVerbatim(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, _ := newStore(t)

	rec := newRecord("verbatim", 0)
	rec.Labels = `{ "zeta": 1,  "alpha": "x", "userId": 1001 }`
	rec.Options = `{"size":"10G" , "compression":null}`
	if err := repos.VolumeRecord.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := repos.VolumeRecord.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Labels != rec.Labels || got.Options != rec.Options {
		t.Errorf("stored JSON changed:\n labels %q\n options %q", got.Labels, got.Options)
	}
}

func newLog(name string, status model.SagaStatus, i int) *model.OperateLog {
	l := &model.OperateLog{
		SagaName:        name,
		SagaStatus:      status,
		CurrentStepName: "step-1",
		SagaContextJSON: `{"volume":"v1"}`,
	}
	l.Stamp("orchestrator", base.Add(time.Duration(i)*time.Minute))
	return l
}

func testOperateLogCRUD(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, _ := newStore(t)

	l := newLog("createVolume", "RUNNING", 0)
	l.SagaOperateID = "saga-fixed"
	if err := repos.OperateLog.Create(ctx, l); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repos.OperateLog.Create(ctx, newLog("other", "RUNNING", 1)); err != nil {
		t.Fatalf("Create() without id error = %v", err)
	}
	again := newLog("createVolume", "RUNNING", 2)
	again.SagaOperateID = "saga-fixed"
	if err := repos.OperateLog.Create(ctx, again); !errors.Is(err, model.ErrOperateLogExists) {
		t.Errorf("Create(existing id) error = %v, want ErrOperateLogExists", err)
	}

	got, err := repos.OperateLog.Get(ctx, "saga-fixed")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SagaContextJSON != `{"volume":"v1"}` || got.CreateBy != "orchestrator" {
		t.Errorf("Get() = %+v", got)
	}
	got.SagaStatus = model.SagaStatusFailed
	got.ErrorDetails = "disk full"
	got.CurrentStepName = ""
	got.Touch("orchestrator", base.Add(time.Hour))
	if err := repos.OperateLog.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	after, err := repos.OperateLog.Get(ctx, "saga-fixed")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if after.SagaStatus != model.SagaStatusFailed || after.ErrorDetails != "disk full" || after.CurrentStepName != "" {
		t.Errorf("after update = %+v", after)
	}
	if err := repos.OperateLog.Delete(ctx, "saga-fixed"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repos.OperateLog.Delete(ctx, "saga-fixed"); !errors.Is(err, model.ErrOperateLogNotFound) {
		t.Errorf("Delete() twice error = %v", err)
	}
}

func testOperateLogSearch(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, _ := newStore(t)

	for i, l := range []*model.OperateLog{
		newLog("createVolume", model.SagaStatusCompleted, 0),
		newLog("deleteVolume", "RUNNING", 1),
		newLog("createVolume", "running", 2),
		newLog("resizeVolume", model.SagaStatusFailed, 3),
	} {
		l.SagaOperateID = fmt.Sprintf("saga-%d", i)
		if err := repos.OperateLog.Create(ctx, l); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		name  string
		query model.OperateLogQuery
		want  []string
	}{
		{"all", model.OperateLogQuery{}, []string{"saga-0", "saga-1", "saga-2", "saga-3"}},
		{"name substring", model.OperateLogQuery{SagaName: "create"}, []string{"saga-0", "saga-2"}},
		{"status ignores case", model.OperateLogQuery{SagaStatus: "Running"}, []string{"saga-1", "saga-2"}},
		{"both filters", model.OperateLogQuery{SagaName: "CREATE", SagaStatus: "running"}, []string{"saga-2"}},
		{"newest first", model.OperateLogQuery{Page: model.PageRequest{OrderBy: "createTime"}}, []string{"saga-3", "saga-2", "saga-1", "saga-0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repos.OperateLog.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			var got []string
			for _, l := range page.Records {
				got = append(got, l.SagaOperateID)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Search() = %v, want %v", got, tt.want)
			}
		})
	}
}

func testUnitOfWorkRollback(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, uow := newStore(t)
	if uow == nil {
		t.Skip("store has no unit of work")
	}

	v := newVolume("doomed", "alice", 0)
	if err := repos.Volume.Create(ctx, v); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	boom := errors.New("boom")
	err := uow.Do(ctx, func(tx *domain.Repositories) error {
		if err := tx.Volume.Delete(ctx, v.ID); err != nil {
			return err
		}
		if err := tx.VolumeRecord.Create(ctx, newRecord("doomed", 0)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Do() error = %v, want boom", err)
	}
	if _, err := repos.Volume.GetByName(ctx, "doomed"); err != nil {
		t.Errorf("volume not restored by rollback: %v", err)
	}
	page, err := repos.VolumeRecord.Search(ctx, model.VolumeRecordQuery{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if page.Total != 0 {
		t.Errorf("record survived rollback: %+v", page.Records)
	}
}

func testUnitOfWorkCommit(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, uow := newStore(t)
	if uow == nil {
		t.Skip("store has no unit of work")
	}

	v := newVolume("moved", "alice", 0)
	if err := repos.Volume.Create(ctx, v); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := uow.Do(ctx, func(tx *domain.Repositories) error {
		got, err := tx.Volume.GetByName(ctx, "moved")
		if err != nil {
			return err
		}
		if err := tx.Volume.Delete(ctx, got.ID); err != nil {
			return err
		}
		return tx.VolumeRecord.Create(ctx, newRecord("moved", 0))
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if _, err := repos.Volume.GetByName(ctx, "moved"); !errors.Is(err, model.ErrVolumeNotFound) {
		t.Errorf("volume still present: %v", err)
	}
	page, err := repos.VolumeRecord.Search(ctx, model.VolumeRecordQuery{VolumeName: "moved"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if page.Total != 1 {
		t.Errorf("records = %d, want 1", page.Total)
	}
}

// testConcurrentOverlappingDelete runs the ledger-and-delete unit of work
// from several goroutines over the same names. Every item must end as a
// success or a not-found; exactly one caller wins each name.
func testConcurrentOverlappingDelete(t *testing.T, newStore Factory) {
	ctx := context.Background()
	repos, uow := newStore(t)
	if uow == nil {
		t.Skip("store has no unit of work")
	}

	const volumes, workers = 10, 6
	for i := range volumes {
		if err := repos.Volume.Create(ctx, newVolume(fmt.Sprintf("vol-%02d", i), "alice", i)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		deleted  int
		notFound int
		failures []error
	)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range volumes {
				name := fmt.Sprintf("vol-%02d", (i+w)%volumes)
				err := uow.Do(ctx, func(tx *domain.Repositories) error {
					v, err := tx.Volume.GetByName(ctx, name)
					if err != nil {
						return err
					}
					if err := tx.VolumeRecord.Create(ctx, newRecord(name, i)); err != nil {
						return err
					}
					return tx.Volume.Delete(ctx, v.ID)
				})
				mu.Lock()
				switch {
				case err == nil:
					deleted++
				case errors.Is(err, model.ErrNotFound):
					notFound++
				default:
					failures = append(failures, fmt.Errorf("%s: %w", name, err))
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(failures) > 0 {
		t.Fatalf("unexpected errors: %v", failures)
	}
	if deleted != volumes || notFound != volumes*(workers-1) {
		t.Errorf("deleted=%d notFound=%d, want %d and %d", deleted, notFound, volumes, volumes*(workers-1))
	}
	page, err := repos.VolumeRecord.Search(ctx, model.VolumeRecordQuery{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if page.Total != volumes {
		t.Errorf("records = %d, want one per deleted volume (%d)", page.Total, volumes)
	}
}

func volumeNames(vs []*model.Volume) []string {
	var out []string
	for _, v := range vs {
		out = append(out, v.Name)
	}
	return out
}
