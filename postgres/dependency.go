package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/taskgraph"
)

// HasDependencyEdge reports whether the ordered edge dependent→dependency exists.
func (s *PGStore) HasDependencyEdge(ctx context.Context, dependentID, dependencyID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM task_dependencies WHERE dependent_id = $1 AND dependency_id = $2)`,
		dependentID, dependencyID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("taskgraph: check edge: %w", err)
	}
	return exists, nil
}

// AddDependencyEdge inserts the ordered edge. Inserting an edge that already
// exists is a no-op; duplicate detection is the manager's concern.
func (s *PGStore) AddDependencyEdge(ctx context.Context, dependentID, dependencyID string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO task_dependencies (dependent_id, dependency_id) VALUES ($1, $2)
		 ON CONFLICT (dependent_id, dependency_id) DO NOTHING`,
		dependentID, dependencyID,
	)
	if err != nil {
		return fmt.Errorf("taskgraph: insert edge: %w", err)
	}
	return nil
}

// RemoveDependencyEdge deletes the ordered edge.
// No error if the edge doesn't exist.
func (s *PGStore) RemoveDependencyEdge(ctx context.Context, dependentID, dependencyID string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM task_dependencies WHERE dependent_id = $1 AND dependency_id = $2`,
		dependentID, dependencyID,
	)
	if err != nil {
		return fmt.Errorf("taskgraph: delete edge: %w", err)
	}
	return nil
}

// EdgesFrom returns the ids dependentID depends on, ordered by created_at.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) EdgesFrom(ctx context.Context, dependentID string) ([]string, error) {
	return s.edgeColumn(ctx,
		`SELECT dependency_id FROM task_dependencies WHERE dependent_id = $1 ORDER BY created_at`,
		dependentID)
}

// EdgesTo returns the ids that depend on dependencyID, ordered by created_at.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) EdgesTo(ctx context.Context, dependencyID string) ([]string, error) {
	return s.edgeColumn(ctx,
		`SELECT dependent_id FROM task_dependencies WHERE dependency_id = $1 ORDER BY created_at`,
		dependencyID)
}

// DependencyEdges returns a snapshot of the full edge set, ordered by
// created_at. Cycle checks run over this snapshot.
func (s *PGStore) DependencyEdges(ctx context.Context) ([]taskgraph.DependencyEdge, error) {
	rows, err := s.db.Query(ctx,
		`SELECT dependent_id, dependency_id FROM task_dependencies ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: list edges: %w", err)
	}
	defer rows.Close()

	edges := []taskgraph.DependencyEdge{}
	for rows.Next() {
		var e taskgraph.DependencyEdge
		if err := rows.Scan(&e.DependentID, &e.DependencyID); err != nil {
			return nil, fmt.Errorf("taskgraph: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taskgraph: rows edges: %w", err)
	}

	return edges, nil
}

func (s *PGStore) edgeColumn(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: query edges: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("taskgraph: scan edge id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taskgraph: rows edge ids: %w", err)
	}

	return ids, nil
}
