package listview

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"clinicboard/internal/model"
	"clinicboard/internal/query"
)

type fakeGateway struct {
	mu      sync.Mutex
	tasks   []model.Task
	err     error
	calls   int
	block   chan struct{} // when set, ListForView waits on it once
	blocked chan struct{} // signals the blocked call has started
}

func (g *fakeGateway) ListForView(ctx context.Context, q query.Query) ([]model.Task, error) {
	g.mu.Lock()
	g.calls++
	block := g.block
	g.block = nil
	tasks, err := g.tasks, g.err
	g.mu.Unlock()

	if block != nil {
		close(g.blocked)
		<-block
	}
	return tasks, err
}

type fakeToggler struct {
	err    error
	calls  int
	lastID string
	last   bool
}

func (t *fakeToggler) SetCompleted(ctx context.Context, orgID, taskID string, completed bool) error {
	t.calls++
	t.lastID = taskID
	t.last = completed
	return t.err
}

func newTestReconciler(g Gateway, t Toggler) *Reconciler {
	return NewReconciler(g, t, zap.NewNop())
}

func TestReconcile_SuccessLoadsTasksAndRouteTexts(t *testing.T) {
	g := &fakeGateway{tasks: []model.Task{{ID: "t1"}, {ID: "t2"}}}
	r := newTestReconciler(g, &fakeToggler{})

	st := r.Reconcile(context.Background(), "u1", "org1", query.RouteAll, query.DefaultSpec())

	if st.Phase != PhaseLoaded {
		t.Fatalf("expected loaded phase, got %v", st.Phase)
	}
	if len(st.Tasks) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(st.Tasks))
	}
	if st.Title != "All Tasks" {
		t.Errorf("expected route title, got %q", st.Title)
	}
	if st.EmptyMessage == "" {
		t.Errorf("expected route empty message")
	}
}

func TestReconcile_FetchFailureDegradesToEmptyList(t *testing.T) {
	g := &fakeGateway{err: errors.New("store unavailable")}
	r := newTestReconciler(g, &fakeToggler{})

	st := r.Reconcile(context.Background(), "u1", "org1", query.RouteMine, query.DefaultSpec())

	if st.Phase != PhaseFailed {
		t.Fatalf("expected failed phase, got %v", st.Phase)
	}
	if st.Tasks == nil || len(st.Tasks) != 0 {
		t.Errorf("failure must yield an empty, non-nil task list, got %v", st.Tasks)
	}
	if st.Title != "My Tasks" {
		t.Errorf("failure must keep the route title, got %q", st.Title)
	}
}

func TestReconcile_MissingOrganizationSkipsGateway(t *testing.T) {
	g := &fakeGateway{tasks: []model.Task{{ID: "t1"}}}
	r := newTestReconciler(g, &fakeToggler{})

	st := r.Reconcile(context.Background(), "u1", "", query.RouteAll, query.DefaultSpec())

	if g.calls != 0 {
		t.Errorf("no fetch may be attempted without organization scope, got %d calls", g.calls)
	}
	if st.Phase != PhaseLoaded || len(st.Tasks) != 0 {
		t.Errorf("expected empty loaded state, got phase=%v tasks=%v", st.Phase, st.Tasks)
	}
}

func TestReconcile_StaleResponseIsDiscarded(t *testing.T) {
	block := make(chan struct{})
	g := &fakeGateway{
		tasks:   []model.Task{{ID: "old"}},
		block:   block,
		blocked: make(chan struct{}),
	}
	r := newTestReconciler(g, &fakeToggler{})

	done := make(chan State, 1)
	go func() {
		done <- r.Reconcile(context.Background(), "u1", "org1", query.RouteAll, query.DefaultSpec())
	}()
	<-g.blocked

	// second reconciliation resolves first and must win
	g.mu.Lock()
	g.tasks = []model.Task{{ID: "new"}}
	g.mu.Unlock()
	fresh := r.Reconcile(context.Background(), "u1", "org1", query.RouteAll, query.DefaultSpec())
	if len(fresh.Tasks) != 1 || fresh.Tasks[0].ID != "new" {
		t.Fatalf("fresh reconciliation did not load, got %v", fresh.Tasks)
	}

	close(block)
	stale := <-done

	if len(stale.Tasks) != 1 || stale.Tasks[0].ID != "new" {
		t.Errorf("stale response must be discarded in favor of newer state, got %v", stale.Tasks)
	}
	cur, ok := r.Current("u1")
	if !ok || len(cur.Tasks) != 1 || cur.Tasks[0].ID != "new" {
		t.Errorf("stored state must be the newer result, got %v", cur.Tasks)
	}
}

func TestToggleCompleted_OptimisticFlipPersistsOnSuccess(t *testing.T) {
	g := &fakeGateway{tasks: []model.Task{{ID: "t1", IsCompleted: false}}}
	tg := &fakeToggler{}
	r := newTestReconciler(g, tg)

	r.Reconcile(context.Background(), "u1", "org1", query.RouteAll, query.DefaultSpec())

	if err := r.ToggleCompleted(context.Background(), "u1", "org1", "t1", true); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	if tg.calls != 1 || tg.lastID != "t1" || !tg.last {
		t.Errorf("expected one completion write for t1, got calls=%d id=%q completed=%v", tg.calls, tg.lastID, tg.last)
	}
	cur, _ := r.Current("u1")
	if !cur.Tasks[0].IsCompleted {
		t.Errorf("cached task must stay flipped after a successful write")
	}
}

func TestToggleCompleted_RollsBackOnWriteFailure(t *testing.T) {
	g := &fakeGateway{tasks: []model.Task{{ID: "t1", IsCompleted: false}}}
	tg := &fakeToggler{err: errors.New("write refused")}
	r := newTestReconciler(g, tg)

	r.Reconcile(context.Background(), "u1", "org1", query.RouteAll, query.DefaultSpec())

	if err := r.ToggleCompleted(context.Background(), "u1", "org1", "t1", true); err == nil {
		t.Fatalf("expected toggle error")
	}

	cur, _ := r.Current("u1")
	if cur.Tasks[0].IsCompleted {
		t.Errorf("failed write must roll the optimistic flip back")
	}
}

func TestToggleCompleted_UncachedTaskStillWrites(t *testing.T) {
	tg := &fakeToggler{}
	r := newTestReconciler(&fakeGateway{}, tg)

	if err := r.ToggleCompleted(context.Background(), "u1", "org1", "t9", true); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if tg.calls != 1 {
		t.Errorf("write must be issued even without a cached view, got %d calls", tg.calls)
	}
}
