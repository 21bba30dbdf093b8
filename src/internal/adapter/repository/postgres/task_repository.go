package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, activity_id, title, description, status, assignee_id, due_date, created_at, updated_at`

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	logger.Info("task repository create", logger.Fields{
		"activityId": task.ActivityID,
		"title":      task.Title,
	})

	const query = `
INSERT INTO tasks (activity_id, title, description, status, assignee_id, due_date)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		task.ActivityID,
		task.Title,
		task.Description,
		task.Status,
		task.AssigneeID,
		task.DueDate,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		logger.Error("task repository create failed", err, logger.Fields{
			"activityId": task.ActivityID,
		})
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (domain.Task, error) {
	const query = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1`

	var task domain.Task
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.ActivityID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.AssigneeID,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrRecordNotFound
		}
		logger.Error("task repository get failed", err, logger.Fields{
			"taskId": id,
		})
		return domain.Task{}, fmt.Errorf("get task: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) ListByActivityID(ctx context.Context, activityID string) ([]domain.Task, error) {
	const query = `
SELECT ` + taskColumns + `
FROM tasks
WHERE activity_id = $1
ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, activityID)
	if err != nil {
		logger.Error("task repository list failed", err, logger.Fields{
			"activityId": activityID,
		})
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.ActivityID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.AssigneeID,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task domain.Task) (domain.Task, error) {
	logger.Info("task repository update", logger.Fields{
		"taskId": task.ID,
	})

	const query = `
UPDATE tasks
SET title = $2,
    description = $3,
    status = $4,
    assignee_id = $5,
    due_date = $6,
    updated_at = NOW()
WHERE id = $1
RETURNING created_at, updated_at`

	var createdAt time.Time
	var updatedAt time.Time
	if err := r.db.QueryRowContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.AssigneeID,
		task.DueDate,
	).Scan(&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrRecordNotFound
		}
		logger.Error("task repository update failed", err, logger.Fields{
			"taskId": task.ID,
		})
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}

	task.CreatedAt = createdAt
	task.UpdatedAt = updatedAt
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	logger.Info("task repository delete", logger.Fields{
		"taskId": id,
	})

	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("task repository delete failed", err, logger.Fields{
			"taskId": id,
		})
		return fmt.Errorf("delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
