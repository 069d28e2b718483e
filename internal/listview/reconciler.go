package listview

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"clinicboard/internal/model"
	"clinicboard/internal/query"
	"clinicboard/pkg/metrics"
)

// Phase of a view's lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

// State is the snapshot a view renders from: the reconciled tasks plus the
// route's fixed title and empty message. Failed states still carry the
// title/message pair and an empty task list, never an error value.
type State struct {
	Phase        Phase        `json:"-"`
	Tasks        []model.Task `json:"tasks"`
	Title        string       `json:"title"`
	EmptyMessage string       `json:"empty_message"`
	Seq          uint64       `json:"-"`
}

// Gateway fetches tasks for an assembled query. Backed by the task
// repository in production.
type Gateway interface {
	ListForView(ctx context.Context, q query.Query) ([]model.Task, error)
}

// Toggler issues the single-task completion write. Backed by the task
// service so the subtask gate applies.
type Toggler interface {
	SetCompleted(ctx context.Context, orgID, taskID string, completed bool) error
}

// Reconciler owns the client-visible task collection per signed-in user.
// Every reconciliation is tagged with a monotonically increasing sequence;
// a response that is no longer the newest for its user is discarded, so
// overlapping fetches cannot clobber fresher state.
type Reconciler struct {
	gateway Gateway
	toggler Toggler
	logger  *zap.Logger

	seq   atomic.Uint64
	mu    sync.Mutex
	views map[string]*viewState
}

type viewState struct {
	latest uint64 // newest sequence issued for this user
	state  State
}

func NewReconciler(gateway Gateway, toggler Toggler, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		gateway: gateway,
		toggler: toggler,
		logger:  logger,
		views:   make(map[string]*viewState),
	}
}

// Reconcile re-derives the user's task list from the current route, filter
// spec and organization scope. Fetch failures degrade to an empty list with
// the route's title and message; the error is logged, never returned.
func (r *Reconciler) Reconcile(ctx context.Context, userID, orgID string, route query.Route, spec query.Spec) State {
	r.mu.Lock()
	v, ok := r.views[userID]
	if !ok {
		v = &viewState{}
		r.views[userID] = v
	}
	seq := r.seq.Add(1)
	v.latest = seq
	v.state.Phase = PhaseLoading
	r.mu.Unlock()

	q := query.Build(spec, route, userID, orgID)

	var tasks []model.Task
	var err error
	if q.Empty {
		tasks = []model.Task{}
	} else {
		tasks, err = r.gateway.ListForView(ctx, q)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v.latest != seq {
		// a newer reconciliation superseded this one; keep its state
		metrics.IncrementTaskListFetch(route.String(), "stale")
		return v.state
	}

	next := State{
		Title:        route.Title(),
		EmptyMessage: route.EmptyMessage(),
		Seq:          seq,
	}
	if err != nil {
		r.logger.Error("Task fetch failed, showing empty list",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("view", route.String()),
		)
		metrics.IncrementTaskListFetch(route.String(), "failed")
		next.Phase = PhaseFailed
		next.Tasks = []model.Task{}
	} else {
		metrics.IncrementTaskListFetch(route.String(), "success")
		next.Phase = PhaseLoaded
		next.Tasks = tasks
	}

	v.state = next
	return next
}

// Current returns the last reconciled state for the user, if any.
func (r *Reconciler) Current(userID string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[userID]
	if !ok {
		return State{}, false
	}
	return v.state, true
}

// ToggleCompleted flips a task's completion optimistically: the cached copy
// is updated first, then the write is issued; a failed write rolls the
// cached copy back and returns the error for inline display.
func (r *Reconciler) ToggleCompleted(ctx context.Context, userID, orgID, taskID string, completed bool) error {
	flipped := r.flip(userID, taskID, completed)

	if err := r.toggler.SetCompleted(ctx, orgID, taskID, completed); err != nil {
		if flipped {
			r.flip(userID, taskID, !completed)
		}
		r.logger.Error("Task completion write failed, rolled back",
			zap.Error(err),
			zap.String("task_id", taskID),
			zap.Bool("completed", completed),
		)
		return err
	}
	return nil
}

// flip updates the cached copy of the task, reporting whether it was found.
func (r *Reconciler) flip(userID, taskID string, completed bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[userID]
	if !ok {
		return false
	}
	for i := range v.state.Tasks {
		if v.state.Tasks[i].ID == taskID {
			v.state.Tasks[i].IsCompleted = completed
			return true
		}
	}
	return false
}
