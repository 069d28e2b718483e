package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clinicboard/internal/model"
	"clinicboard/internal/query"
)

type TaskStore interface {
	ListForView(ctx context.Context, q query.Query) ([]model.Task, error)
	GetByID(ctx context.Context, orgID, taskID string) (*model.Task, error)
	Insert(ctx context.Context, t *model.Task) error
	Update(ctx context.Context, orgID string, t *model.Task) error
	SetCompleted(ctx context.Context, orgID, taskID string, completed bool) error
}

type SubtaskStore interface {
	Insert(ctx context.Context, st *model.Subtask) error
	ListByTask(ctx context.Context, taskID string) ([]model.Subtask, error)
	SetCompleted(ctx context.Context, subtaskID string, completed bool) error
	CountIncomplete(ctx context.Context, taskID string) (int, error)
}

type CommentStore interface {
	Insert(ctx context.Context, c *model.Comment) error
	ListByTask(ctx context.Context, taskID string) ([]model.Comment, error)
}

type TaskService struct {
	tasks    TaskStore
	subtasks SubtaskStore
	comments CommentStore
	logger   *zap.Logger
}

func NewTaskService(tasks TaskStore, subtasks SubtaskStore, comments CommentStore, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		subtasks: subtasks,
		comments: comments,
		logger:   logger,
	}
}

// CreateTaskInput carries the add-task form: the task fields plus the
// initial subtask titles.
type CreateTaskInput struct {
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	DueDate    *time.Time `json:"due_date"`
	AssignedTo string     `json:"assigned_to"`
	Resources  string     `json:"resources"`
	Notes      string     `json:"notes"`
	Subtasks   []string   `json:"subtasks"`
}

// Create inserts a task and its non-empty initial subtasks.
func (s *TaskService) Create(ctx context.Context, orgID, createdBy string, in CreateTaskInput) (*model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if in.Category == "" {
		in.Category = "General"
	}
	if !model.ValidCategory(in.Category) {
		return nil, ErrInvalidCategory
	}

	t := &model.Task{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Title:          title,
		Category:       in.Category,
		DueDate:        in.DueDate,
		AssignedTo:     optional(in.AssignedTo),
		Resources:      optional(in.Resources),
		Notes:          optional(in.Notes),
		CreatedBy:      &createdBy,
	}
	if err := s.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}

	for _, title := range in.Subtasks {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		st := &model.Subtask{
			ID:     uuid.NewString(),
			TaskID: t.ID,
			Title:  title,
		}
		if err := s.subtasks.Insert(ctx, st); err != nil {
			return nil, err
		}
		t.Subtasks = append(t.Subtasks, *st)
	}

	return t, nil
}

// UpdateTaskInput carries the detail form's editable fields.
type UpdateTaskInput struct {
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  string     `json:"assigned_to"`
	Resources   string     `json:"resources"`
	Notes       string     `json:"notes"`
	IsCompleted bool       `json:"is_completed"`
}

// Update overwrites a task's editable fields. Completing the task through
// the form is gated on its subtasks exactly like the checkbox toggle.
func (s *TaskService) Update(ctx context.Context, orgID, taskID string, in UpdateTaskInput) (*model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if in.Category != "" && !model.ValidCategory(in.Category) {
		return nil, ErrInvalidCategory
	}

	current, err := s.tasks.GetByID(ctx, orgID, taskID)
	if err != nil {
		return nil, err
	}

	if in.IsCompleted && !current.IsCompleted {
		if err := s.checkSubtaskGate(ctx, taskID); err != nil {
			return nil, err
		}
	}

	current.Title = title
	if in.Category != "" {
		current.Category = in.Category
	}
	current.DueDate = in.DueDate
	current.AssignedTo = optional(in.AssignedTo)
	current.Resources = optional(in.Resources)
	current.Notes = optional(in.Notes)
	current.IsCompleted = in.IsCompleted

	if err := s.tasks.Update(ctx, orgID, current); err != nil {
		return nil, err
	}
	return current, nil
}

// SetCompleted flips a task's completion flag. A task with incomplete
// subtasks cannot be completed.
func (s *TaskService) SetCompleted(ctx context.Context, orgID, taskID string, completed bool) error {
	if completed {
		if err := s.checkSubtaskGate(ctx, taskID); err != nil {
			return err
		}
	}
	return s.tasks.SetCompleted(ctx, orgID, taskID, completed)
}

func (s *TaskService) checkSubtaskGate(ctx context.Context, taskID string) error {
	open, err := s.subtasks.CountIncomplete(ctx, taskID)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrSubtasksIncomplete
	}
	return nil
}

// Details returns a task with its subtasks and comments resolved.
func (s *TaskService) Details(ctx context.Context, orgID, taskID string) (*model.Task, []model.Comment, error) {
	t, err := s.tasks.GetByID(ctx, orgID, taskID)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	return t, comments, nil
}

// AddSubtask appends a subtask to an existing task.
func (s *TaskService) AddSubtask(ctx context.Context, orgID, taskID, title string) (*model.Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	// existence check keeps orphan subtasks impossible through this path
	if _, err := s.tasks.GetByID(ctx, orgID, taskID); err != nil {
		return nil, err
	}

	st := &model.Subtask{
		ID:     uuid.NewString(),
		TaskID: taskID,
		Title:  title,
	}
	if err := s.subtasks.Insert(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// ToggleSubtask flips one subtask's completion flag.
func (s *TaskService) ToggleSubtask(ctx context.Context, subtaskID string, completed bool) error {
	return s.subtasks.SetCompleted(ctx, subtaskID, completed)
}

// AddComment appends a comment to a task. Comments are append-only.
func (s *TaskService) AddComment(ctx context.Context, orgID, taskID, userID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if _, err := s.tasks.GetByID(ctx, orgID, taskID); err != nil {
		return nil, err
	}

	c := &model.Comment{
		ID:      uuid.NewString(),
		TaskID:  taskID,
		UserID:  userID,
		Content: content,
	}
	if err := s.comments.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
