package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"clinicboard/internal/model"
)

type SubtaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSubtaskRepository(db *pgxpool.Pool, logger *zap.Logger) *SubtaskRepository {
	return &SubtaskRepository{db: db, logger: logger}
}

func (r *SubtaskRepository) Insert(ctx context.Context, st *model.Subtask) error {
	sql := `
        INSERT INTO subtasks (id, task_id, title, is_completed, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, sql, st.ID, st.TaskID, st.Title, st.IsCompleted).
		Scan(&st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert subtask",
			zap.Error(err),
			zap.String("task_id", st.TaskID),
		)
	}
	return err
}

// ListByTask returns a task's subtasks ordered by creation time.
func (r *SubtaskRepository) ListByTask(ctx context.Context, taskID string) ([]model.Subtask, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, task_id, title, is_completed, created_at, updated_at
        FROM subtasks
        WHERE task_id = $1
        ORDER BY created_at ASC
    `, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subtasks := []model.Subtask{}
	for rows.Next() {
		var st model.Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Title, &st.IsCompleted, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		subtasks = append(subtasks, st)
	}
	return subtasks, rows.Err()
}

func (r *SubtaskRepository) SetCompleted(ctx context.Context, subtaskID string, completed bool) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE subtasks SET is_completed = $2, updated_at = NOW() WHERE id = $1
    `, subtaskID, completed)
	if err != nil {
		r.logger.Error("Failed to toggle subtask",
			zap.Error(err),
			zap.String("subtask_id", subtaskID),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountIncomplete returns how many of a task's subtasks are still open.
func (r *SubtaskRepository) CountIncomplete(ctx context.Context, taskID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM subtasks WHERE task_id = $1 AND is_completed = FALSE
    `, taskID).Scan(&n)
	return n, err
}
