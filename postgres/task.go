package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/taskgraph"
)

// CreateTask inserts a single task.
// If task.ID is empty, a UUID is auto-generated.
// Returns the task ID (generated or provided).
// ParentID and SubtaskIDs are relation state and are not written at create;
// the hierarchy is only written through SetParent. Fails if the id is already
// taken.
func (s *PGStore) CreateTask(ctx context.Context, task *taskgraph.Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO tasks (id, title, status, priority) VALUES ($1, $2, $3, $4)`,
		task.ID, task.Title, task.Status, task.Priority,
	)
	if err != nil {
		return "", fmt.Errorf("taskgraph: insert task: %w", err)
	}

	return task.ID, nil
}

// GetTask fetches a single task by its ID, with derived SubtaskIDs filled in.
// Returns nil, nil if not found.
func (s *PGStore) GetTask(ctx context.Context, id string) (*taskgraph.Task, error) {
	var (
		t        taskgraph.Task
		parentID *string
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, title, status, priority, parent_id FROM tasks WHERE id = $1`, id,
	).Scan(&t.ID, &t.Title, &t.Status, &t.Priority, &parentID)

	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("taskgraph: get task: %w", err)
	}
	if parentID != nil {
		t.ParentID = *parentID
	}

	rows, err := s.db.Query(ctx,
		`SELECT id FROM tasks WHERE parent_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: query subtask ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var childID string
		if err := rows.Scan(&childID); err != nil {
			return nil, fmt.Errorf("taskgraph: scan subtask id: %w", err)
		}
		t.SubtaskIDs = append(t.SubtaskIDs, childID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taskgraph: rows subtask ids: %w", err)
	}

	return &t, nil
}

// ListTasks returns all tasks ordered by created_at.
// Returns an empty slice (not nil) if none exist.
func (s *PGStore) ListTasks(ctx context.Context) ([]taskgraph.Task, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, status, priority, parent_id FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []taskgraph.Task{}
	for rows.Next() {
		var (
			t        taskgraph.Task
			parentID *string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Status, &t.Priority, &parentID); err != nil {
			return nil, fmt.Errorf("taskgraph: scan task: %w", err)
		}
		if parentID != nil {
			t.ParentID = *parentID
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taskgraph: rows tasks: %w", err)
	}

	return tasks, nil
}

// DeleteTask deletes a task record by its ID. The FK actions strip its edges
// and orphan its children as a backstop; callers still run the managers'
// cascades first so the behavior holds on any Store.
// No error if the task doesn't exist.
func (s *PGStore) DeleteTask(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("taskgraph: delete task: %w", err)
	}
	return nil
}
