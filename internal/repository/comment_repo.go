package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"clinicboard/internal/model"
)

type CommentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCommentRepository(db *pgxpool.Pool, logger *zap.Logger) *CommentRepository {
	return &CommentRepository{db: db, logger: logger}
}

func (r *CommentRepository) Insert(ctx context.Context, c *model.Comment) error {
	sql := `
        INSERT INTO comments (id, task_id, user_id, content, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING created_at
    `
	err := r.db.QueryRow(ctx, sql, c.ID, c.TaskID, c.UserID, c.Content).Scan(&c.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert comment",
			zap.Error(err),
			zap.String("task_id", c.TaskID),
		)
	}
	return err
}

// ListByTask returns a task's comments with their authors, oldest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]model.Comment, error) {
	rows, err := r.db.Query(ctx, `
        SELECT c.id, c.task_id, c.user_id, c.content, c.created_at,
               u.id, u.email, u.full_name
        FROM comments c
        LEFT JOIN users u ON u.id = c.user_id
        WHERE c.task_id = $1
        ORDER BY c.created_at ASC
    `, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		var authorID, authorEmail, authorName *string
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt,
			&authorID, &authorEmail, &authorName); err != nil {
			return nil, err
		}
		if authorID != nil {
			c.Author = &model.User{ID: *authorID, Email: *authorEmail, FullName: *authorName}
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
