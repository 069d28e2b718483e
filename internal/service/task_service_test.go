package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"clinicboard/internal/model"
	"clinicboard/internal/query"
)

type fakeTaskStore struct {
	byID           map[string]*model.Task
	inserted       []*model.Task
	updated        []*model.Task
	completedCalls int
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{byID: make(map[string]*model.Task)}
}

func (f *fakeTaskStore) ListForView(ctx context.Context, q query.Query) ([]model.Task, error) {
	return nil, nil
}

func (f *fakeTaskStore) GetByID(ctx context.Context, orgID, taskID string) (*model.Task, error) {
	t, ok := f.byID[taskID]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskStore) Insert(ctx context.Context, t *model.Task) error {
	f.inserted = append(f.inserted, t)
	f.byID[t.ID] = t
	return nil
}

func (f *fakeTaskStore) Update(ctx context.Context, orgID string, t *model.Task) error {
	f.updated = append(f.updated, t)
	f.byID[t.ID] = t
	return nil
}

func (f *fakeTaskStore) SetCompleted(ctx context.Context, orgID, taskID string, completed bool) error {
	f.completedCalls++
	if t, ok := f.byID[taskID]; ok {
		t.IsCompleted = completed
	}
	return nil
}

type fakeSubtaskStore struct {
	incomplete map[string]int
	inserted   []*model.Subtask
}

func newFakeSubtaskStore() *fakeSubtaskStore {
	return &fakeSubtaskStore{incomplete: make(map[string]int)}
}

func (f *fakeSubtaskStore) Insert(ctx context.Context, st *model.Subtask) error {
	f.inserted = append(f.inserted, st)
	return nil
}

func (f *fakeSubtaskStore) ListByTask(ctx context.Context, taskID string) ([]model.Subtask, error) {
	return nil, nil
}

func (f *fakeSubtaskStore) SetCompleted(ctx context.Context, subtaskID string, completed bool) error {
	return nil
}

func (f *fakeSubtaskStore) CountIncomplete(ctx context.Context, taskID string) (int, error) {
	return f.incomplete[taskID], nil
}

type fakeCommentStore struct {
	inserted []*model.Comment
}

func (f *fakeCommentStore) Insert(ctx context.Context, c *model.Comment) error {
	f.inserted = append(f.inserted, c)
	return nil
}

func (f *fakeCommentStore) ListByTask(ctx context.Context, taskID string) ([]model.Comment, error) {
	return []model.Comment{}, nil
}

func newTaskService(tasks *fakeTaskStore, subtasks *fakeSubtaskStore, comments *fakeCommentStore) *TaskService {
	return NewTaskService(tasks, subtasks, comments, zap.NewNop())
}

// A task title consisting only of whitespace is rejected before any write.
func TestTaskService_CreateRequiresTitle(t *testing.T) {
	tasks := newFakeTaskStore()
	svc := newTaskService(tasks, newFakeSubtaskStore(), &fakeCommentStore{})

	_, err := svc.Create(context.Background(), "org-1", "user-1", CreateTaskInput{Title: "   "})
	if err != ErrTitleRequired {
		t.Errorf("Create(blank title) error = %v, want ErrTitleRequired", err)
	}
	if len(tasks.inserted) != 0 {
		t.Errorf("Create(blank title) inserted %d tasks, want 0", len(tasks.inserted))
	}
}

// Omitting the category defaults it to General.
func TestTaskService_CreateDefaultsCategory(t *testing.T) {
	tasks := newFakeTaskStore()
	svc := newTaskService(tasks, newFakeSubtaskStore(), &fakeCommentStore{})

	created, err := svc.Create(context.Background(), "org-1", "user-1", CreateTaskInput{Title: "File incorporation"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Category != "General" {
		t.Errorf("Create() category = %q, want General", created.Category)
	}
}

func TestTaskService_CreateRejectsUnknownCategory(t *testing.T) {
	svc := newTaskService(newFakeTaskStore(), newFakeSubtaskStore(), &fakeCommentStore{})

	_, err := svc.Create(context.Background(), "org-1", "user-1", CreateTaskInput{
		Title:    "Set up payroll",
		Category: "Facilities",
	})
	if err != ErrInvalidCategory {
		t.Errorf("Create(unknown category) error = %v, want ErrInvalidCategory", err)
	}
}

// Blank entries in the initial subtask list are skipped, not stored.
func TestTaskService_CreateSkipsBlankSubtasks(t *testing.T) {
	subtasks := newFakeSubtaskStore()
	svc := newTaskService(newFakeTaskStore(), subtasks, &fakeCommentStore{})

	created, err := svc.Create(context.Background(), "org-1", "user-1", CreateTaskInput{
		Title:    "Credentialing",
		Subtasks: []string{"Gather documents", "  ", "Submit application"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(subtasks.inserted) != 2 {
		t.Errorf("Create() stored %d subtasks, want 2", len(subtasks.inserted))
	}
	if len(created.Subtasks) != 2 {
		t.Errorf("Create() returned %d subtasks, want 2", len(created.Subtasks))
	}
}

// A task with incomplete subtasks cannot be completed from the list view.
func TestTaskService_SetCompletedBlockedByOpenSubtasks(t *testing.T) {
	tasks := newFakeTaskStore()
	tasks.byID["task-1"] = &model.Task{ID: "task-1", OrganizationID: "org-1", Title: "Hire nurse"}
	subtasks := newFakeSubtaskStore()
	subtasks.incomplete["task-1"] = 2
	svc := newTaskService(tasks, subtasks, &fakeCommentStore{})

	err := svc.SetCompleted(context.Background(), "org-1", "task-1", true)
	if err != ErrSubtasksIncomplete {
		t.Errorf("SetCompleted() error = %v, want ErrSubtasksIncomplete", err)
	}
	if tasks.completedCalls != 0 {
		t.Errorf("SetCompleted() reached the store %d times, want 0", tasks.completedCalls)
	}
}

func TestTaskService_SetCompletedAllowedWhenSubtasksDone(t *testing.T) {
	tasks := newFakeTaskStore()
	tasks.byID["task-1"] = &model.Task{ID: "task-1", OrganizationID: "org-1", Title: "Hire nurse"}
	svc := newTaskService(tasks, newFakeSubtaskStore(), &fakeCommentStore{})

	if err := svc.SetCompleted(context.Background(), "org-1", "task-1", true); err != nil {
		t.Fatalf("SetCompleted() error = %v", err)
	}
	if tasks.completedCalls != 1 {
		t.Errorf("SetCompleted() reached the store %d times, want 1", tasks.completedCalls)
	}
}

// Un-completing is never gated, regardless of subtask state.
func TestTaskService_SetCompletedFalseSkipsGate(t *testing.T) {
	tasks := newFakeTaskStore()
	tasks.byID["task-1"] = &model.Task{ID: "task-1", OrganizationID: "org-1", IsCompleted: true}
	subtasks := newFakeSubtaskStore()
	subtasks.incomplete["task-1"] = 3
	svc := newTaskService(tasks, subtasks, &fakeCommentStore{})

	if err := svc.SetCompleted(context.Background(), "org-1", "task-1", false); err != nil {
		t.Fatalf("SetCompleted(false) error = %v", err)
	}
}

// Completing through the edit form hits the same subtask gate as the toggle.
func TestTaskService_UpdateCompletionGated(t *testing.T) {
	tasks := newFakeTaskStore()
	tasks.byID["task-1"] = &model.Task{ID: "task-1", OrganizationID: "org-1", Title: "Lease space", Category: "General"}
	subtasks := newFakeSubtaskStore()
	subtasks.incomplete["task-1"] = 1
	svc := newTaskService(tasks, subtasks, &fakeCommentStore{})

	_, err := svc.Update(context.Background(), "org-1", "task-1", UpdateTaskInput{
		Title:       "Lease space",
		IsCompleted: true,
	})
	if err != ErrSubtasksIncomplete {
		t.Errorf("Update(complete with open subtasks) error = %v, want ErrSubtasksIncomplete", err)
	}
}

// An already-completed task can be edited without re-running the gate.
func TestTaskService_UpdateAlreadyCompletedNotGated(t *testing.T) {
	tasks := newFakeTaskStore()
	tasks.byID["task-1"] = &model.Task{ID: "task-1", OrganizationID: "org-1", Title: "Lease space", Category: "General", IsCompleted: true}
	subtasks := newFakeSubtaskStore()
	subtasks.incomplete["task-1"] = 1
	svc := newTaskService(tasks, subtasks, &fakeCommentStore{})

	_, err := svc.Update(context.Background(), "org-1", "task-1", UpdateTaskInput{
		Title:       "Lease space downtown",
		IsCompleted: true,
	})
	if err != nil {
		t.Errorf("Update(already completed) error = %v", err)
	}
}

func TestTaskService_AddCommentRejectsEmpty(t *testing.T) {
	tasks := newFakeTaskStore()
	tasks.byID["task-1"] = &model.Task{ID: "task-1", OrganizationID: "org-1"}
	comments := &fakeCommentStore{}
	svc := newTaskService(tasks, newFakeSubtaskStore(), comments)

	_, err := svc.AddComment(context.Background(), "org-1", "task-1", "user-1", "  ")
	if err != ErrCommentEmpty {
		t.Errorf("AddComment(blank) error = %v, want ErrCommentEmpty", err)
	}
	if len(comments.inserted) != 0 {
		t.Errorf("AddComment(blank) stored %d comments, want 0", len(comments.inserted))
	}
}

func TestTaskService_AddSubtaskChecksParent(t *testing.T) {
	svc := newTaskService(newFakeTaskStore(), newFakeSubtaskStore(), &fakeCommentStore{})

	_, err := svc.AddSubtask(context.Background(), "org-1", "missing", "Order supplies")
	if err == nil {
		t.Error("AddSubtask(missing parent) error = nil, want error")
	}
}
