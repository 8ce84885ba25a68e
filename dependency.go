package taskgraph

import (
	"context"
	"fmt"
)

// DependencyGraphManager owns the dependency relation's invariants: no
// self-reference, no duplicate edge, no directed cycle. Every mutation
// validates existence, then self-reference, then induced cycles before
// touching the store.
type DependencyGraphManager struct {
	store Store
}

func NewDependencyGraphManager(store Store) *DependencyGraphManager {
	return &DependencyGraphManager{store: store}
}

// AddDependency records "dependentID depends on dependencyID".
// Fails with ErrTaskNotFound, ErrSelfReference, ErrEdgeExists, or
// ErrCycleDetected; on success the edge is persisted with no other side
// effects.
func (m *DependencyGraphManager) AddDependency(ctx context.Context, dependentID, dependencyID string) error {
	if _, err := m.requireTask(ctx, dependentID); err != nil {
		return err
	}
	if _, err := m.requireTask(ctx, dependencyID); err != nil {
		return err
	}
	if dependentID == dependencyID {
		return ErrSelfReference
	}

	exists, err := m.store.HasDependencyEdge(ctx, dependentID, dependencyID)
	if err != nil {
		return fmt.Errorf("taskgraph: check edge: %w", err)
	}
	if exists {
		return ErrEdgeExists
	}

	// Snapshot the edge set and ask whether a path already leads from the
	// candidate dependency back to the dependent.
	edges, err := m.store.DependencyEdges(ctx)
	if err != nil {
		return fmt.Errorf("taskgraph: snapshot edges: %w", err)
	}
	if WouldCreateCycle(BuildAdjacency(edges), dependentID, dependencyID) {
		return ErrCycleDetected
	}

	return m.store.AddDependencyEdge(ctx, dependentID, dependencyID)
}

// RemoveDependency deletes the ordered edge. Fails with ErrTaskNotFound or
// ErrEdgeNotFound.
func (m *DependencyGraphManager) RemoveDependency(ctx context.Context, dependentID, dependencyID string) error {
	if _, err := m.requireTask(ctx, dependentID); err != nil {
		return err
	}
	if _, err := m.requireTask(ctx, dependencyID); err != nil {
		return err
	}

	exists, err := m.store.HasDependencyEdge(ctx, dependentID, dependencyID)
	if err != nil {
		return fmt.Errorf("taskgraph: check edge: %w", err)
	}
	if !exists {
		return ErrEdgeNotFound
	}

	return m.store.RemoveDependencyEdge(ctx, dependentID, dependencyID)
}

// ListDependencies returns the tasks taskID points to.
func (m *DependencyGraphManager) ListDependencies(ctx context.Context, taskID string) ([]Task, error) {
	if _, err := m.requireTask(ctx, taskID); err != nil {
		return nil, err
	}
	ids, err := m.store.EdgesFrom(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: edges from %s: %w", taskID, err)
	}
	return m.tasksByID(ctx, ids)
}

// ListDependents returns the tasks that point to taskID.
func (m *DependencyGraphManager) ListDependents(ctx context.Context, taskID string) ([]Task, error) {
	if _, err := m.requireTask(ctx, taskID); err != nil {
		return nil, err
	}
	ids, err := m.store.EdgesTo(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: edges to %s: %w", taskID, err)
	}
	return m.tasksByID(ctx, ids)
}

// BuildDependencyTree expands taskID's outgoing dependency edges into a nested
// result, at most maxDepth edges deep (DefaultMaxDepth when maxDepth <= 0).
// Nodes at the depth frontier carry an empty dependency list rather than
// erroring.
func (m *DependencyGraphManager) BuildDependencyTree(ctx context.Context, taskID string, maxDepth int) (*DependencyNode, error) {
	root, err := m.requireTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	top, err := buildTree(ctx, *root, maxDepth, func(ctx context.Context, id string) ([]Task, error) {
		ids, err := m.store.EdgesFrom(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("taskgraph: edges from %s: %w", id, err)
		}
		return m.tasksByID(ctx, ids)
	})
	if err != nil {
		return nil, err
	}

	node := top.dependencyNode()
	return &node, nil
}

// CascadeDeleteEdges removes every dependency edge touching taskID as either
// endpoint. Invoked when the task record itself is being deleted, so the task
// is not required to still exist.
func (m *DependencyGraphManager) CascadeDeleteEdges(ctx context.Context, taskID string) error {
	deps, err := m.store.EdgesFrom(ctx, taskID)
	if err != nil {
		return fmt.Errorf("taskgraph: edges from %s: %w", taskID, err)
	}
	for _, dep := range deps {
		if err := m.store.RemoveDependencyEdge(ctx, taskID, dep); err != nil {
			return fmt.Errorf("taskgraph: cascade remove edge %s->%s: %w", taskID, dep, err)
		}
	}

	dependents, err := m.store.EdgesTo(ctx, taskID)
	if err != nil {
		return fmt.Errorf("taskgraph: edges to %s: %w", taskID, err)
	}
	for _, dependent := range dependents {
		if err := m.store.RemoveDependencyEdge(ctx, dependent, taskID); err != nil {
			return fmt.Errorf("taskgraph: cascade remove edge %s->%s: %w", dependent, taskID, err)
		}
	}
	return nil
}

func (m *DependencyGraphManager) requireTask(ctx context.Context, id string) (*Task, error) {
	t, err := m.store.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: get task %s: %w", id, err)
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (m *DependencyGraphManager) tasksByID(ctx context.Context, ids []string) ([]Task, error) {
	tasks := []Task{}
	for _, id := range ids {
		t, err := m.store.GetTask(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("taskgraph: get task %s: %w", id, err)
		}
		if t == nil {
			// Edge pointing at a task deleted out from under us; skip it.
			continue
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}
