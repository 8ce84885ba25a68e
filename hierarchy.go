package taskgraph

import (
	"context"
	"fmt"
)

// HierarchyManager owns the subtask relation: each task has at most one
// parent, and following parent links always terminates (the relation is a
// forest). Mutations run the same checks as the dependency manager, in the
// same order: existence, self-reference, induced cycle.
type HierarchyManager struct {
	store Store
}

func NewHierarchyManager(store Store) *HierarchyManager {
	return &HierarchyManager{store: store}
}

// AddSubtask makes childID a subtask of parentID. A child that already has a
// different parent is silently re-parented (move semantics). Fails with
// ErrTaskNotFound, ErrSelfReference, or ErrCycleDetected when childID is
// already an ancestor of parentID. In a forest that single parent-direction
// check is sufficient.
func (m *HierarchyManager) AddSubtask(ctx context.Context, parentID, childID string) error {
	if _, err := m.requireTask(ctx, parentID); err != nil {
		return err
	}
	if _, err := m.requireTask(ctx, childID); err != nil {
		return err
	}
	if parentID == childID {
		return ErrSelfReference
	}

	parents, err := m.store.ParentLinks(ctx)
	if err != nil {
		return fmt.Errorf("taskgraph: snapshot parent links: %w", err)
	}
	if IsAncestor(parents, childID, parentID) {
		return ErrCycleDetected
	}

	return m.store.SetParent(ctx, childID, parentID)
}

// RemoveSubtask clears childID's parent link. Fails with ErrTaskNotFound, or
// ErrSubtaskNotFound when childID is not currently a subtask of parentID.
func (m *HierarchyManager) RemoveSubtask(ctx context.Context, parentID, childID string) error {
	if _, err := m.requireTask(ctx, parentID); err != nil {
		return err
	}
	if _, err := m.requireTask(ctx, childID); err != nil {
		return err
	}

	current, err := m.store.GetParent(ctx, childID)
	if err != nil {
		return fmt.Errorf("taskgraph: get parent of %s: %w", childID, err)
	}
	if current != parentID {
		return ErrSubtaskNotFound
	}

	return m.store.SetParent(ctx, childID, "")
}

// GetParent returns childID's direct parent, or nil when it has none.
func (m *HierarchyManager) GetParent(ctx context.Context, childID string) (*Task, error) {
	if _, err := m.requireTask(ctx, childID); err != nil {
		return nil, err
	}
	parentID, err := m.store.GetParent(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: get parent of %s: %w", childID, err)
	}
	if parentID == "" {
		return nil, nil
	}
	parent, err := m.store.GetTask(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: get task %s: %w", parentID, err)
	}
	return parent, nil
}

// GetChildren returns the tasks whose parent is parentID.
func (m *HierarchyManager) GetChildren(ctx context.Context, parentID string) ([]Task, error) {
	if _, err := m.requireTask(ctx, parentID); err != nil {
		return nil, err
	}
	children, err := m.store.GetChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: children of %s: %w", parentID, err)
	}
	return children, nil
}

// BuildSubtree collects rootID's descendants into a nested result, at most
// maxDepth edges deep (DefaultMaxDepth when maxDepth <= 0), with the same
// frontier-truncation and cycle-safety rules as BuildDependencyTree.
func (m *HierarchyManager) BuildSubtree(ctx context.Context, rootID string, maxDepth int) (*SubtaskNode, error) {
	root, err := m.requireTask(ctx, rootID)
	if err != nil {
		return nil, err
	}

	top, err := buildTree(ctx, *root, maxDepth, func(ctx context.Context, id string) ([]Task, error) {
		children, err := m.store.GetChildren(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("taskgraph: children of %s: %w", id, err)
		}
		return children, nil
	})
	if err != nil {
		return nil, err
	}

	node := top.subtaskNode()
	return &node, nil
}

// CascadeDeleteEdges orphans every direct child of taskID by clearing its
// parent link; children are never deleted. taskID's own membership in its
// parent's child set is implicit in its parent link, which dies with the task
// record.
func (m *HierarchyManager) CascadeDeleteEdges(ctx context.Context, taskID string) error {
	children, err := m.store.GetChildren(ctx, taskID)
	if err != nil {
		return fmt.Errorf("taskgraph: children of %s: %w", taskID, err)
	}
	for _, child := range children {
		if err := m.store.SetParent(ctx, child.ID, ""); err != nil {
			return fmt.Errorf("taskgraph: orphan %s: %w", child.ID, err)
		}
	}
	return nil
}

func (m *HierarchyManager) requireTask(ctx context.Context, id string) (*Task, error) {
	t, err := m.store.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("taskgraph: get task %s: %w", id, err)
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}
