package operatelog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kompox/volsaga/adapters/store/inmem"
	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/domain/model"
)

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T) *UseCase {
	t.Helper()
	store := inmem.NewStore()
	return &UseCase{
		Repos: &Repos{OperateLog: store.OperateLogRepository},
		UoW:   store,
		Clock: func() time.Time { return fixedNow },
	}
}

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, u *UseCase, in *CreateInput) *model.OperateLog {
	t.Helper()
	out, err := u.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return out.Log
}

func TestCreateGeneratesID(t *testing.T) {
	u := newUseCase(t)
	l := mustCreate(t, u, &CreateInput{SagaName: "createVolume", SagaStatus: "RUNNING", SagaContextJSON: `{"a": 1}`})
	if !strings.HasPrefix(l.SagaOperateID, "saga-") {
		t.Errorf("SagaOperateID = %q", l.SagaOperateID)
	}
	got, err := u.Get(context.Background(), &GetInput{SagaOperateID: l.SagaOperateID})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Log.SagaContextJSON != `{"a": 1}` || !got.Log.CreateTime.Equal(fixedNow) {
		t.Errorf("Get() = %+v", got.Log)
	}
}

func TestCreateConflictAndValidation(t *testing.T) {
	u := newUseCase(t)
	mustCreate(t, u, &CreateInput{SagaOperateID: "saga-1", SagaName: "s", SagaStatus: "RUNNING"})
	_, err := u.Create(context.Background(), &CreateInput{SagaOperateID: "saga-1", SagaName: "s", SagaStatus: "RUNNING"})
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("Create(existing id) error = %v, want conflict", err)
	}
	_, err = u.Create(context.Background(), &CreateInput{SagaStatus: "RUNNING"})
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("Create(no name) error = %v, want validation", err)
	}
}

func TestUpdateStoresAnyTransition(t *testing.T) {
	ctx := context.Background()
	u := newUseCase(t)
	l := mustCreate(t, u, &CreateInput{SagaName: "s", SagaStatus: string(model.SagaStatusCompleted)})

	out, err := u.Update(ctx, &UpdateInput{SagaOperateID: l.SagaOperateID, SagaStatus: strPtr("RUNNING"), ErrorDetails: strPtr("reopened")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if out.Log.SagaStatus != "RUNNING" || out.Log.ErrorDetails != "reopened" {
		t.Errorf("Update() = %+v", out.Log)
	}
	if _, err := u.Update(ctx, &UpdateInput{SagaOperateID: l.SagaOperateID, SagaStatus: strPtr("")}); !errors.Is(err, model.ErrValidation) {
		t.Errorf("Update(empty status) error = %v", err)
	}
	if _, err := u.Update(ctx, &UpdateInput{SagaOperateID: "saga-none", SagaName: strPtr("x")}); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Update(missing) error = %v", err)
	}
}

func TestBatchDeleteRespectsTerminalStatus(t *testing.T) {
	ctx := context.Background()
	u := newUseCase(t)
	done := mustCreate(t, u, &CreateInput{SagaOperateID: "saga-done", SagaName: "s", SagaStatus: "completed"})
	comp := mustCreate(t, u, &CreateInput{SagaOperateID: "saga-comp", SagaName: "s", SagaStatus: "COMPENSATED"})
	running := mustCreate(t, u, &CreateInput{SagaOperateID: "saga-run", SagaName: "s", SagaStatus: "COMPENSATING"})

	out, err := u.BatchDelete(ctx, &BatchDeleteInput{IDs: []string{done.SagaOperateID, running.SagaOperateID, comp.SagaOperateID, "saga-missing"}})
	if err != nil {
		t.Fatalf("BatchDelete() error = %v", err)
	}
	r := out.Result
	if len(r.Succeeded) != 2 {
		t.Errorf("Succeeded = %v", r.Succeeded)
	}
	reasons := map[string]string{}
	for _, f := range r.Failed {
		reasons[f.ID] = f.Reason
	}
	if reasons["saga-run"] != "protected" || reasons["saga-missing"] != "not_found" {
		t.Errorf("Failed = %+v", r.Failed)
	}
	if _, err := u.Get(ctx, &GetInput{SagaOperateID: "saga-run"}); err != nil {
		t.Errorf("in-flight log removed: %v", err)
	}
}

// flipOnGet starts a concurrent status change as soon as the log has been
// read and gives it a moment to land before the caller carries on.
type flipOnGet struct {
	domain.OperateLogRepository
	flip    func() error
	flipped chan error
	early   *error
}

func (r *flipOnGet) Get(ctx context.Context, id string) (*model.OperateLog, error) {
	l, err := r.OperateLogRepository.Get(ctx, id)
	go func() { r.flipped <- r.flip() }()
	select {
	case ferr := <-r.flipped:
		r.early = &ferr
	case <-time.After(50 * time.Millisecond):
	}
	return l, err
}

type unitFunc func(ctx context.Context, fn func(repos *domain.Repositories) error) error

func (f unitFunc) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	return f(ctx, fn)
}

func TestBatchDeleteIsAtomicWithStatusChange(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	u := &UseCase{
		Repos: &Repos{OperateLog: store.OperateLogRepository},
		Clock: func() time.Time { return fixedNow },
	}
	mustCreate(t, u, &CreateInput{SagaOperateID: "saga-1", SagaName: "s", SagaStatus: "FAILED"})

	reopen := &UseCase{Repos: &Repos{OperateLog: store.OperateLogRepository}, Clock: u.Clock}
	repo := &flipOnGet{
		flip: func() error {
			_, err := reopen.Update(ctx, &UpdateInput{SagaOperateID: "saga-1", SagaStatus: strPtr("COMPENSATING")})
			return err
		},
		flipped: make(chan error, 1),
	}
	u.UoW = unitFunc(func(ctx context.Context, fn func(repos *domain.Repositories) error) error {
		return store.Do(ctx, func(tx *domain.Repositories) error {
			repo.OperateLogRepository = tx.OperateLog
			return fn(&domain.Repositories{OperateLog: repo})
		})
	})

	out, err := u.BatchDelete(ctx, &BatchDeleteInput{IDs: []string{"saga-1"}})
	if err != nil {
		t.Fatalf("BatchDelete() error = %v", err)
	}
	flipErr := repo.early
	if flipErr == nil {
		ferr := <-repo.flipped
		flipErr = &ferr
	}

	_, getErr := store.OperateLogRepository.Get(ctx, "saga-1")
	deleted := errors.Is(getErr, model.ErrNotFound)
	switch {
	case deleted && *flipErr == nil:
		t.Fatalf("log pruned although its saga went back to COMPENSATING; result = %+v", out.Result)
	case deleted && !errors.Is(*flipErr, model.ErrNotFound):
		t.Errorf("status change error = %v, want not found", *flipErr)
	case !deleted && out.Result.Success():
		t.Errorf("BatchDelete() reported success but the log is still present")
	}
}

func TestSearchByStatus(t *testing.T) {
	u := newUseCase(t)
	mustCreate(t, u, &CreateInput{SagaName: "createVolume", SagaStatus: "FAILED"})
	mustCreate(t, u, &CreateInput{SagaName: "createVolume", SagaStatus: "RUNNING"})
	mustCreate(t, u, &CreateInput{SagaName: "resize", SagaStatus: "failed"})

	out, err := u.Search(context.Background(), &SearchInput{SagaStatus: "Failed"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out.Page.Total != 2 {
		t.Errorf("Total = %d, want 2", out.Page.Total)
	}
	out, err = u.Search(context.Background(), &SearchInput{SagaName: "VOLUME", SagaStatus: "running"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out.Page.Total != 1 {
		t.Errorf("Total = %d, want 1", out.Page.Total)
	}
}
