package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"minebot/database"
	"minebot/models"
)

// TaskRepository implements the service.TaskRepository interface
type TaskRepository struct {
	q queryable
}

// NewTaskRepository creates a new running task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{q: db.Pool}
}

// newTaskRepositoryWithTx creates a new task repository with a transaction
func newTaskRepositoryWithTx(tx queryable) *TaskRepository {
	return &TaskRepository{q: tx}
}

// GetByUserID retrieves a user's task record
func (r *TaskRepository) GetByUserID(ctx context.Context, userID int64) (*models.RunningTask, error) {
	query := `
		SELECT user_id, task_id, running, started_at
		FROM running_tasks
		WHERE user_id = $1
	`

	var task models.RunningTask
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&task.UserID,
		&task.TaskID,
		&task.Running,
		&task.StartedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task for user %d: %w", userID, err)
	}

	return &task, nil
}

// Upsert stores or replaces a user's task record. The primary key on
// user_id enforces at most one record per user.
func (r *TaskRepository) Upsert(ctx context.Context, task *models.RunningTask) error {
	query := `
		INSERT INTO running_tasks (user_id, task_id, running, started_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET task_id = EXCLUDED.task_id, running = EXCLUDED.running, started_at = EXCLUDED.started_at
	`

	if _, err := r.q.Exec(ctx, query, task.UserID, task.TaskID, task.Running, task.StartedAt); err != nil {
		return fmt.Errorf("failed to upsert task for user %d: %w", task.UserID, err)
	}

	return nil
}

// Delete removes a user's task record; deleting an absent record is not an
// error
func (r *TaskRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM running_tasks WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete task for user %d: %w", userID, err)
	}
	return nil
}

// GetAll returns every task record
func (r *TaskRepository) GetAll(ctx context.Context) ([]*models.RunningTask, error) {
	query := `
		SELECT user_id, task_id, running, started_at
		FROM running_tasks
		ORDER BY started_at
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.RunningTask
	for rows.Next() {
		var task models.RunningTask
		if err := rows.Scan(&task.UserID, &task.TaskID, &task.Running, &task.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}
