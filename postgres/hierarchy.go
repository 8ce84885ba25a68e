package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/taskgraph"
)

// GetParent returns the parent id of a task, or "" when it has none.
// Unknown ids also return ""; existence checks are the manager's concern.
func (s *PGStore) GetParent(ctx context.Context, id string) (string, error) {
	var parentID *string
	err := s.db.QueryRow(ctx,
		`SELECT parent_id FROM tasks WHERE id = $1`, id,
	).Scan(&parentID)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("taskgraph: get parent: %w", err)
	}
	if parentID == nil {
		return "", nil
	}
	return *parentID, nil
}

// SetParent sets a task's parent link; an empty parentID clears it.
func (s *PGStore) SetParent(ctx context.Context, id, parentID string) error {
	var p *string
	if parentID != "" {
		p = &parentID
	}
	_, err := s.db.Exec(ctx, `UPDATE tasks SET parent_id = $1 WHERE id = $2`, p, id)
	if err != nil {
		return fmt.Errorf("taskgraph: set parent: %w", err)
	}
	return nil
}

// GetChildren returns the tasks whose parent is parentID, ordered by created_at.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) GetChildren(ctx context.Context, parentID string) ([]taskgraph.Task, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, status, priority, parent_id FROM tasks WHERE parent_id = $1 ORDER BY created_at`,
		parentID)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: query children: %w", err)
	}
	defer rows.Close()

	children := []taskgraph.Task{}
	for rows.Next() {
		var (
			t  taskgraph.Task
			pp *string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Status, &t.Priority, &pp); err != nil {
			return nil, fmt.Errorf("taskgraph: scan child: %w", err)
		}
		if pp != nil {
			t.ParentID = *pp
		}
		children = append(children, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taskgraph: rows children: %w", err)
	}

	return children, nil
}

// ParentLinks returns a child→parent snapshot of the hierarchy relation.
// Ancestor checks run over this snapshot.
func (s *PGStore) ParentLinks(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, parent_id FROM tasks WHERE parent_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: query parent links: %w", err)
	}
	defer rows.Close()

	links := make(map[string]string)
	for rows.Next() {
		var id, parentID string
		if err := rows.Scan(&id, &parentID); err != nil {
			return nil, fmt.Errorf("taskgraph: scan parent link: %w", err)
		}
		links[id] = parentID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taskgraph: rows parent links: %w", err)
	}

	return links, nil
}
