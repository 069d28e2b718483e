package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"clinicboard/internal/model"
	"clinicboard/internal/query"
	"clinicboard/pkg/metrics"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

const taskSelectColumns = `
        t.id, t.organization_id, t.title, t.category, t.priority,
        t.is_completed, t.assigned_to, t.due_date, t.resources, t.notes,
        t.is_preloaded, t.created_by, t.created_at, t.updated_at,
        au.id, au.email, au.full_name,
        cu.id, cu.email, cu.full_name`

// ListForView executes an assembled task query and returns the tasks with
// their assignee, creator and subtasks resolved. An empty query yields zero
// tasks without touching the database.
func (r *TaskRepository) ListForView(ctx context.Context, q query.Query) ([]model.Task, error) {
	if q.Empty {
		return []model.Task{}, nil
	}

	start := time.Now()
	sql := fmt.Sprintf(`
        SELECT %s
        FROM tasks t
        LEFT JOIN users au ON au.id = t.assigned_to
        LEFT JOIN users cu ON cu.id = t.created_by
        WHERE %s
        ORDER BY %s
    `, taskSelectColumns, q.Where, q.OrderBy)

	rows, err := r.db.Query(ctx, sql, q.Args...)
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Error(err),
			zap.String("organization_id", q.OrganizationID),
		)
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			r.logger.Error("Failed to scan task row", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachSubtasks(ctx, tasks); err != nil {
		return nil, err
	}

	metrics.RecordDBQueryDuration("list_for_view", "tasks", time.Since(start))
	r.logger.Debug("Tasks listed",
		zap.String("organization_id", q.OrganizationID),
		zap.Int("count", len(tasks)),
	)
	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, orgID, taskID string) (*model.Task, error) {
	sql := fmt.Sprintf(`
        SELECT %s
        FROM tasks t
        LEFT JOIN users au ON au.id = t.assigned_to
        LEFT JOIN users cu ON cu.id = t.created_by
        WHERE t.organization_id = $1 AND t.id = $2
    `, taskSelectColumns)

	row := r.db.QueryRow(ctx, sql, orgID, taskID)
	t, err := scanTask(row.Scan)
	if err != nil {
		return nil, err
	}

	tasks := []model.Task{t}
	if err := r.attachSubtasks(ctx, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	start := time.Now()
	sql := `
        INSERT INTO tasks (id, organization_id, title, category, priority,
                           is_completed, assigned_to, due_date, resources,
                           notes, is_preloaded, created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
        RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, sql,
		t.ID,
		t.OrganizationID,
		t.Title,
		t.Category,
		t.Priority,
		t.IsCompleted,
		t.AssignedTo,
		t.DueDate,
		t.Resources,
		t.Notes,
		t.IsPreloaded,
		t.CreatedBy,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.String("organization_id", t.OrganizationID),
			zap.String("title", t.Title),
		)
		return err
	}
	metrics.RecordDBQueryDuration("insert", "tasks", time.Since(start))
	r.logger.Info("Task inserted",
		zap.String("task_id", t.ID),
		zap.String("organization_id", t.OrganizationID),
	)
	return nil
}

// Update overwrites the editable fields of a task.
func (r *TaskRepository) Update(ctx context.Context, orgID string, t *model.Task) error {
	sql := `
        UPDATE tasks
        SET title = $3, category = $4, due_date = $5, assigned_to = $6,
            resources = $7, notes = $8, is_completed = $9, updated_at = NOW()
        WHERE organization_id = $1 AND id = $2
    `
	tag, err := r.db.Exec(ctx, sql,
		orgID,
		t.ID,
		t.Title,
		t.Category,
		t.DueDate,
		t.AssignedTo,
		t.Resources,
		t.Notes,
		t.IsCompleted,
	)
	if err != nil {
		r.logger.Error("Failed to update task",
			zap.Error(err),
			zap.String("task_id", t.ID),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCompleted flips the completion flag of a single task.
func (r *TaskRepository) SetCompleted(ctx context.Context, orgID, taskID string, completed bool) error {
	sql := `
        UPDATE tasks
        SET is_completed = $3, updated_at = NOW()
        WHERE organization_id = $1 AND id = $2
    `
	tag, err := r.db.Exec(ctx, sql, orgID, taskID, completed)
	if err != nil {
		r.logger.Error("Failed to set task completion",
			zap.Error(err),
			zap.String("task_id", taskID),
			zap.Bool("completed", completed),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.logger.Info("Task completion updated",
		zap.String("task_id", taskID),
		zap.Bool("completed", completed),
	)
	return nil
}

type scanFunc func(dest ...any) error

func scanTask(scan scanFunc) (model.Task, error) {
	var t model.Task
	var assigneeID, assigneeEmail, assigneeName *string
	var creatorID, creatorEmail, creatorName *string

	err := scan(
		&t.ID,
		&t.OrganizationID,
		&t.Title,
		&t.Category,
		&t.Priority,
		&t.IsCompleted,
		&t.AssignedTo,
		&t.DueDate,
		&t.Resources,
		&t.Notes,
		&t.IsPreloaded,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
		&assigneeID, &assigneeEmail, &assigneeName,
		&creatorID, &creatorEmail, &creatorName,
	)
	if err != nil {
		return model.Task{}, err
	}

	if assigneeID != nil {
		t.AssignedUser = &model.User{ID: *assigneeID, Email: *assigneeEmail, FullName: *assigneeName}
	}
	if creatorID != nil {
		t.CreatedByUser = &model.User{ID: *creatorID, Email: *creatorEmail, FullName: *creatorName}
	}
	return t, nil
}

func (r *TaskRepository) attachSubtasks(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, len(tasks))
	index := make(map[string]int, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
		index[tasks[i].ID] = i
	}

	rows, err := r.db.Query(ctx, `
        SELECT id, task_id, title, is_completed, created_at, updated_at
        FROM subtasks
        WHERE task_id = ANY($1)
        ORDER BY created_at ASC
    `, ids)
	if err != nil {
		r.logger.Error("Failed to query subtasks", zap.Error(err))
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var st model.Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Title, &st.IsCompleted, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return err
		}
		if i, ok := index[st.TaskID]; ok {
			tasks[i].Subtasks = append(tasks[i].Subtasks, st)
		}
	}
	return rows.Err()
}
